package recommend

import "math/rand"

// typeCatalog is every place type the selector can draw from. The first
// regionalTypeCount entries are regional cuisines, the rest are food styles;
// the two halves are kept disjoint so a default pairing always mixes one of
// each.
var typeCatalog = []string{
	"afghani_restaurant", "african_restaurant", "american_restaurant",
	"brazilian_restaurant", "chinese_restaurant", "french_restaurant",
	"greek_restaurant", "indian_restaurant", "indonesian_restaurant",
	"italian_restaurant", "japanese_restaurant", "korean_restaurant",
	"lebanese_restaurant", "mediterranean_restaurant", "mexican_restaurant",
	"middle_eastern_restaurant", "spanish_restaurant", "thai_restaurant",
	"turkish_restaurant", "vietnamese_restaurant",
	"bagel_shop", "bakery", "barbecue_restaurant", "breakfast_restaurant",
	"brunch_restaurant", "buffet_restaurant", "cafe", "confectionery",
	"deli", "dessert_shop", "diner", "donut_shop", "fast_food_restaurant",
	"fine_dining_restaurant", "food_court", "hamburger_restaurant",
	"ice_cream_shop", "juice_shop", "pizza_restaurant", "ramen_restaurant",
	"sandwich_shop", "seafood_restaurant", "steak_house", "sushi_restaurant",
	"vegan_restaurant", "vegetarian_restaurant",
}

const regionalTypeCount = 20

// diverseSets are the bundles served to moderately frequent visitors
// (5 < visits < 20) to push variety.
var diverseSets = [][]string{
	{"italian_restaurant", "chinese_restaurant", "mexican_restaurant", "indian_restaurant"},
	{"japanese_restaurant", "french_restaurant", "thai_restaurant", "mediterranean_restaurant"},
	{"american_restaurant", "vietnamese_restaurant", "greek_restaurant", "korean_restaurant"},
}

// SelectDefaultTypes picks the type set to search for when the user expressed
// no cuisine preference. Rules, in order: demanding searches (very high
// rating bar, or the 500m "right here" radius) fall back to the generic
// restaurant type; moderately frequent visitors get one of the diverse
// bundles; everyone else gets a random regional cuisine paired with a random
// food style. Callers pass the rng so the draw is reproducible under test.
func SelectDefaultTypes(minRating float64, distanceMeters, visitCount int, rng *rand.Rand) []string {
	if minRating > 4.7 || distanceMeters == 500 {
		return []string{"restaurant"}
	}
	if visitCount > 5 && visitCount < 20 {
		set := diverseSets[rng.Intn(len(diverseSets))]
		return append([]string(nil), set...)
	}
	regional := typeCatalog[:regionalTypeCount]
	styles := typeCatalog[regionalTypeCount:]
	return []string{
		regional[rng.Intn(len(regional))],
		styles[rng.Intn(len(styles))],
	}
}
