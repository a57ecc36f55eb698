package images

// Photographer credit. The profile URL is hand-curated per photographer,
// never derived from the image URL.
type Photographer struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PoolEntry is one curated (photographer, image) pair. Within a pool each
// image URL belongs to exactly one photographer.
type PoolEntry struct {
	Photographer Photographer
	ImageURL     string
}

// Hardcoded fallback when no pool is usable. Image assignment must never
// block publication.
var DefaultEntry = PoolEntry{
	Photographer: Photographer{Name: "Jakob Owens", URL: "https://unsplash.com/@jakobowens1"},
	ImageURL:     "https://images.unsplash.com/photo-1488085061387-422e29b40080",
}

var categoryPools = map[Category][]PoolEntry{
	CategoryTravel: {
		{Photographer{"Jakob Owens", "https://unsplash.com/@jakobowens1"}, "https://images.unsplash.com/photo-1488085061387-422e29b40080"},
		{Photographer{"Asoggetti", "https://unsplash.com/@asoggetti"}, "https://images.unsplash.com/photo-1476514525535-07fb3b4ae5f1"},
		{Photographer{"Jaromir Kavan", "https://unsplash.com/@jerrykavan"}, "https://images.unsplash.com/photo-1503220317375-aaad61436b1b"},
		{Photographer{"Dino Reichmuth", "https://unsplash.com/@dinoreichmuth"}, "https://images.unsplash.com/photo-1530521954074-e64f6810b32d"},
		{Photographer{"Sylvain Mauroux", "https://unsplash.com/@sylvainmauroux"}, "https://images.unsplash.com/photo-1501785888041-af3ef285b470"},
		{Photographer{"Sime Basioli", "https://unsplash.com/@basecore"}, "https://images.unsplash.com/photo-1530789253388-582c481c54b0"},
		{Photographer{"Braden Jarvis", "https://unsplash.com/@jarvisphoto"}, "https://images.unsplash.com/photo-1469854523086-cc02fe5d8800"},
		{Photographer{"Simon Migaj", "https://unsplash.com/@simonmigaj"}, "https://images.unsplash.com/photo-1508672019048-805c876b67e2"},
		{Photographer{"Arto Marttinen", "https://unsplash.com/@wandervisions"}, "https://images.unsplash.com/photo-1473496169904-658ba7c44d8a"},
		{Photographer{"Emile Guillemot", "https://unsplash.com/@emilegt"}, "https://images.unsplash.com/photo-1528127269322-539801943592"},
		{Photographer{"Thomas Tucker", "https://unsplash.com/@tents_and_tread"}, "https://images.unsplash.com/photo-1526772662000-3f88f10405ff"},
		{Photographer{"Davide Cantelli", "https://unsplash.com/@cant89"}, "https://images.unsplash.com/photo-1528164344705-47542687000d"},
	},
	CategoryCruise: {
		{Photographer{"Alonso Reyes", "https://unsplash.com/@alonsoreyes"}, "https://images.unsplash.com/photo-1548574505-5e239809ee19"},
		{Photographer{"Josiah Farrow", "https://unsplash.com/@josiahfarrow"}, "https://images.unsplash.com/photo-1599640842225-85d111c60e6b"},
		{Photographer{"Vidar Nordli-Mathisen", "https://unsplash.com/@vidarnm"}, "https://images.unsplash.com/photo-1548690312-e3b507d8c110"},
	},
	CategoryCulture: {
		{Photographer{"Anthony Tran", "https://unsplash.com/@anthonytran"}, "https://images.unsplash.com/photo-1493707553966-283afac8c358"},
		{Photographer{"Jingda Chen", "https://unsplash.com/@jingda"}, "https://images.unsplash.com/photo-1577083552431-6e5fd01988a5"},
		{Photographer{"Esteban Castle", "https://unsplash.com/@estebancastle"}, "https://images.unsplash.com/photo-1566438480900-0609be27a4be"},
		{Photographer{"Jezael Melgoza", "https://unsplash.com/@jezar"}, "https://images.unsplash.com/photo-1518998053901-5348d3961a04"},
		{Photographer{"Raimond Klavins", "https://unsplash.com/@raimondklavins"}, "https://images.unsplash.com/photo-1551913902-c92207136625"},
		{Photographer{"Heidi Kaden", "https://unsplash.com/@heidikaden"}, "https://images.unsplash.com/photo-1552084117-56a987666449"},
		{Photographer{"Shifaaz Shamoon", "https://unsplash.com/@sotti"}, "https://images.unsplash.com/photo-1581889470536-467bdbe30cd0"},
		{Photographer{"Dario Bronnimann", "https://unsplash.com/@darby"}, "https://images.unsplash.com/photo-1533105079780-92b9be482077"},
	},
	CategoryFoodWine: {
		{Photographer{"Brooke Lark", "https://unsplash.com/@brookelark"}, "https://images.unsplash.com/photo-1504674900247-0877df9cc836"},
		{Photographer{"Kelsey Knight", "https://unsplash.com/@kelseyannvere"}, "https://images.unsplash.com/photo-1510812431401-41d2bd2722f3"},
	},
	CategoryAdventure: {
		{Photographer{"Flo Maderebner", "https://unsplash.com/@flomaderebner"}, "https://images.unsplash.com/photo-1551632811-561732d1e306"},
	},
}

// PoolFor returns the curated pool for a category, falling back to the
// Travel pool for empty or unknown categories.
func PoolFor(category Category) []PoolEntry {
	if pool, ok := categoryPools[category]; ok && len(pool) > 0 {
		return pool
	}
	return categoryPools[CategoryTravel]
}
