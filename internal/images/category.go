package images

import "strings"

// Category is the closed set of image pool names. Story categories from
// the rewrite step are free text; Classify maps them onto this set.
type Category string

const (
	CategoryTravel    Category = "Travel"
	CategoryCruise    Category = "Cruise"
	CategoryCulture   Category = "Culture"
	CategoryFoodWine  Category = "Food & Wine"
	CategoryAdventure Category = "Adventure"
)

// Classify normalizes a raw category string into a pool category. The
// mapping is many-to-one by substring; anything unknown or composite
// resolves to Travel.
func Classify(raw string) Category {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return CategoryTravel
	}

	switch {
	case strings.Contains(normalized, "cruise"):
		return CategoryCruise
	case strings.Contains(normalized, "food"), strings.Contains(normalized, "wine"):
		return CategoryFoodWine
	case strings.Contains(normalized, "adventure"):
		return CategoryAdventure
	case strings.Contains(normalized, "culture"):
		return CategoryCulture
	default:
		return CategoryTravel
	}
}
