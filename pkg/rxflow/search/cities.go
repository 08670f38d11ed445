package search

// Cities returns the sample data set used by the examples and benchmarks.
func Cities() []string {
	return []string{
		"Abu Dhabi", "Accra", "Addis Ababa", "Amsterdam", "Ankara", "Athens",
		"Atlanta", "Auckland", "Baghdad", "Baltimore", "Bangkok", "Barcelona",
		"Beijing", "Belgrade", "Berlin", "Bogota", "Boston", "Brasilia",
		"Brisbane", "Brussels", "Bucharest", "Budapest", "Buenos Aires", "Cairo",
		"Calgary", "Canberra", "Cape Town", "Caracas", "Casablanca", "Chicago",
		"Copenhagen", "Dakar", "Dallas", "Delhi", "Denver", "Detroit", "Dhaka",
		"Dubai", "Dublin", "Edinburgh", "Frankfurt", "Geneva", "Guadalajara",
		"Hamburg", "Hanoi", "Havana", "Helsinki", "Ho Chi Minh City",
		"Hong Kong", "Honolulu", "Houston", "Istanbul", "Jakarta", "Johannesburg",
		"Karachi", "Kathmandu", "Kyiv", "Lagos", "Lima", "Lisbon", "London",
		"Los Angeles", "Madrid", "Manila", "Melbourne", "Mexico City", "Miami",
		"Milan", "Montreal", "Moscow", "Mumbai", "Munich", "Nairobi", "Naples",
		"New Orleans", "New York", "Osaka", "Oslo", "Ottawa", "Paris", "Perth",
		"Philadelphia", "Phoenix", "Portland", "Prague", "Quito", "Reykjavik",
		"Riga", "Rio de Janeiro", "Rome", "San Diego", "San Francisco",
		"Santiago", "Sao Paulo", "Seattle", "Seoul", "Shanghai", "Singapore",
		"Stockholm", "Sydney", "Taipei", "Tallinn", "Tehran", "Tokyo", "Toronto",
		"Tunis", "Vancouver", "Vienna", "Vilnius", "Warsaw", "Washington",
		"Wellington", "Zagreb", "Zurich",
	}
}
