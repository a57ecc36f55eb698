package frontmatter

import (
	"strings"
	"time"

	"github.com/globaltravelreport/ingest/internal/images"
)

// Defaults substituted during repair.
const (
	DefaultCountry         = "Global"
	DefaultType            = "Travel"
	DefaultPhotographerURL = "https://unsplash.com"
	DefaultPhotographer    = "Unsplash"
)

// RepairStats counts repairs per kind. Zero value means the record was
// already normalized.
type RepairStats struct {
	HeaderSynthesized int
	SlugFixed         int
	DateFixed         int
	CountryFixed      int
	TypeFixed         int
	ImageFixed        int
	PhotographerFixed int
	SummaryFixed      int
}

func (s *RepairStats) Add(other RepairStats) {
	s.HeaderSynthesized += other.HeaderSynthesized
	s.SlugFixed += other.SlugFixed
	s.DateFixed += other.DateFixed
	s.CountryFixed += other.CountryFixed
	s.TypeFixed += other.TypeFixed
	s.ImageFixed += other.ImageFixed
	s.PhotographerFixed += other.PhotographerFixed
	s.SummaryFixed += other.SummaryFixed
}

func (s RepairStats) Total() int {
	return s.HeaderSynthesized + s.SlugFixed + s.DateFixed + s.CountryFixed +
		s.TypeFixed + s.ImageFixed + s.PhotographerFixed + s.SummaryFixed
}

// Date layouts accepted before a date is declared unparsable.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC822,
}

// Normalizer applies the repair stages to persisted records. now is
// injectable so repairs are reproducible in tests.
type Normalizer struct {
	now func() time.Time
}

func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// Normalize runs every repair stage over one record. identityKey is the
// file's slug and the authoritative address of the record. The body is
// never modified. Applying Normalize to its own output is a no-op.
func (n *Normalizer) Normalize(content []byte, identityKey string) ([]byte, RepairStats, error) {
	var stats RepairStats

	// Stage 1: parse, or synthesize a header from derivable data. A record
	// is never rejected for a missing or mangled header.
	story, body, err := Parse(content)
	if err != nil {
		story, body = n.synthesizeHeader(content, identityKey)
		stats.HeaderSynthesized++
	}

	// Stage 2: the identity key wins over whatever slug was stored.
	if story.Slug != identityKey {
		story.Slug = identityKey
		stats.SlugFixed++
	}

	// Stage 3: date repair. Future dates are valid scheduled stories; only
	// strings no layout can parse are replaced with the current time.
	if _, ok := parseDate(story.Date); !ok {
		story.Date = n.now().UTC().Format(time.RFC3339)
		stats.DateFixed++
	}

	// Stage 4: category/country disambiguation.
	if fixed := repairCountryAndType(story); fixed.CountryFixed+fixed.TypeFixed > 0 {
		stats.Add(fixed)
	}

	// Stage 5: image URL must carry an HTTP(S) scheme. Empty values, YAML
	// fold markers and relative paths all get the fixed default.
	if !isValidImageURL(story.ImageURL) {
		story.ImageURL = images.DefaultEntry.ImageURL
		stats.ImageFixed++
	}

	// Stage 6: photographer is always an object with name and url.
	if story.Photographer.Name == "" {
		story.Photographer = Photographer{Name: DefaultPhotographer, URL: DefaultPhotographerURL}
		stats.PhotographerFixed++
	} else if story.Photographer.URL == "" {
		story.Photographer.URL = DefaultPhotographerURL
		stats.PhotographerFixed++
	}

	// Stage 7: summary backfill.
	if story.Summary == "" {
		if story.Excerpt != "" {
			story.Summary = story.Excerpt
		} else {
			story.Summary = firstSentence(body)
		}
		if story.Summary != "" {
			stats.SummaryFixed++
		}
	}

	out, err := Render(story, body)
	if err != nil {
		return nil, stats, err
	}
	return out, stats, nil
}

// synthesizeHeader builds a header from the only trustworthy inputs: the
// identity key and the body text.
func (n *Normalizer) synthesizeHeader(content []byte, identityKey string) (*Story, string) {
	body := strings.TrimSpace(string(content))
	return &Story{
		Title:   TitleFromSlug(identityKey),
		Summary: firstParagraph(body),
		Date:    n.now().UTC().Format(time.RFC3339),
		Slug:    identityKey,
	}, body
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// categoryLikeWords flag a country field that actually holds a category.
var categoryLikeWords = []string{"travel", "cruise", "adventure", "culture", "food", "wine", "airline", "destination"}

func repairCountryAndType(story *Story) RepairStats {
	var stats RepairStats

	country := strings.TrimSpace(story.Country)
	lower := strings.ToLower(country)

	categoryLike := false
	for _, w := range categoryLikeWords {
		if strings.Contains(lower, w) {
			categoryLike = true
			break
		}
	}

	if categoryLike {
		// The country field held a category; move it where it belongs.
		if strings.TrimSpace(story.Type) == "" {
			story.Type = string(images.Classify(country))
			stats.TypeFixed++
		}
		story.Country = DefaultCountry
		stats.CountryFixed++
	} else if country == "" || strings.EqualFold(country, "unknown") {
		story.Country = DefaultCountry
		stats.CountryFixed++
	}

	if strings.TrimSpace(story.Type) == "" {
		story.Type = DefaultType
		stats.TypeFixed++
	}

	return stats
}

func isValidImageURL(url string) bool {
	url = strings.TrimSpace(url)
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

func firstParagraph(body string) string {
	for _, p := range strings.Split(body, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			return p
		}
	}
	return ""
}

func firstSentence(body string) string {
	paragraph := firstParagraph(body)
	if paragraph == "" {
		return ""
	}
	if idx := strings.Index(paragraph, ". "); idx != -1 {
		return paragraph[:idx+1]
	}
	return paragraph
}
