package question

// DefaultTemplates is the built-in question catalogue. Placeholders name
// country record fields.
var DefaultTemplates = []string{
	"Which country has {capital} as its capital and is part of the {region} region?",
	"The nation that speaks {languages} and uses {currencies} as its currency is known as what?",
	"Which country borders {borders} and lies in the {region} region?",
	"Identify the country whose capital is {capital} and whose primary language is {languages}.",
	"What country operates in the timezone {timezones} and uses {currencies}?",
	"Which nation in the {region} region has a population around {population}?",
	"The country with the capital city {capital} and a population close to {population} is called what?",
	"Which country speaks {languages} and lies in the timezone {timezones}?",
	"Name the nation that has an area of about {area} and is located in {region}.",
	"What country borders {borders} and mainly speaks {languages}?",
	"The country in {region} whose currency is {currencies} is known as what?",
	"Which country has {borders} as neighboring countries and uses {currencies}?",
	"Identify the country located in the {region} region that speaks {languages}.",
	"Which nation has a population of around {population} and uses {currencies}?",
	"The country that speaks {languages} and has {capital} as its capital is which one?",
	"Which country lies in the {region} region and borders {borders}?",
	"What country operates in {timezones} and has a population close to {population}?",
	"The nation with {population} inhabitants and mainly speaking {languages} is called what?",
	"Which country has {capital} as its capital and uses {currencies} as official money?",
	"Which country located in {region} has an area of approximately {area}?",
}
