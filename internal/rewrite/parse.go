package rewrite

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Documented defaults substituted for missing response fields.
const (
	DefaultCountry  = "Unknown"
	DefaultCategory = "General"
)

// responseJSON is the strict-JSON contract shape.
type responseJSON struct {
	Title           string   `json:"title"`
	Summary         string   `json:"summary"`
	Content         string   `json:"content"`
	MetaTitle       string   `json:"metaTitle"`
	MetaDescription string   `json:"metaDescription"`
	Keywords        []string `json:"keywords"`
	Country         string   `json:"country"`
	Category        string   `json:"category"`
}

// ParseResponse parses a provider response in either supported contract:
// a strict JSON object (possibly fenced) or labeled delimiter sections.
// Missing fields are substituted with documented defaults rather than
// failing the item; the substituted field names are recorded on the
// result. It fails only when no usable article text can be recovered.
func ParseResponse(raw, originalTitle string) (*Result, error) {
	cleaned := cleanupResponse(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty response")
	}

	result := parseJSONResponse(cleaned)
	if result == nil {
		result = parseSectionResponse(cleaned)
	}

	applyDefaults(result, originalTitle, cleaned)

	if strings.TrimSpace(result.Content) == "" {
		return nil, fmt.Errorf("response contains no article text")
	}
	return result, nil
}

// cleanupResponse strips markdown code fences that models wrap around
// JSON despite instructions.
func cleanupResponse(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func parseJSONResponse(cleaned string) *Result {
	// The object may be surrounded by stray prose; take the outermost braces.
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return nil
	}

	var parsed responseJSON
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &parsed); err != nil {
		return nil
	}

	return &Result{
		Title:           strings.TrimSpace(parsed.Title),
		Summary:         strings.TrimSpace(parsed.Summary),
		Content:         strings.TrimSpace(parsed.Content),
		MetaTitle:       strings.TrimSpace(parsed.MetaTitle),
		MetaDescription: strings.TrimSpace(parsed.MetaDescription),
		Keywords:        trimAll(parsed.Keywords),
		Country:         strings.TrimSpace(parsed.Country),
		Category:        strings.TrimSpace(parsed.Category),
	}
}

// Patterns for section labels (case-insensitive, optional brackets around
// the value are stripped later).
var sectionPatterns = []struct {
	name  string
	regex *regexp.Regexp
}{
	{"title", regexp.MustCompile(`(?i)^(HEADLINE|TITLE)\s*: ?`)},
	{"summary", regexp.MustCompile(`(?i)^SUMMARY\s*: ?`)},
	{"content", regexp.MustCompile(`(?i)^(CONTENT|ARTICLE|BODY)\s*: ?`)},
	{"keywords", regexp.MustCompile(`(?i)^KEYWORDS\s*: ?`)},
	{"country", regexp.MustCompile(`(?i)^COUNTRY\s*: ?`)},
	{"category", regexp.MustCompile(`(?i)^CATEGORY\s*: ?`)},
}

// parseSectionResponse handles the labeled delimiter contract
// (HEADLINE: ... / SUMMARY: ... / CONTENT: ...). Unlabeled leading text
// before the first label is treated as content.
func parseSectionResponse(cleaned string) *Result {
	sections := map[string]*strings.Builder{}
	appendText := func(section, text string) {
		if text == "" {
			return
		}
		b, ok := sections[section]
		if !ok {
			b = &strings.Builder{}
			sections[section] = b
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(text)
	}

	current := "content"
	for _, rawLine := range strings.Split(cleaned, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		matched := false
		for _, sp := range sectionPatterns {
			if sp.regex.MatchString(line) {
				current = sp.name
				appendText(current, strings.TrimSpace(sp.regex.ReplaceAllString(line, "")))
				matched = true
				break
			}
		}
		if !matched {
			appendText(current, line)
		}
	}

	get := func(section string) string {
		if b, ok := sections[section]; ok {
			return strings.Trim(strings.TrimSpace(b.String()), "[]")
		}
		return ""
	}

	var keywords []string
	for _, k := range strings.Split(get("keywords"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}

	return &Result{
		Title:    strings.ReplaceAll(get("title"), "\n", " "),
		Summary:  strings.ReplaceAll(get("summary"), "\n", " "),
		Content:  get("content"),
		Keywords: keywords,
		Country:  strings.ReplaceAll(get("country"), "\n", " "),
		Category: strings.ReplaceAll(get("category"), "\n", " "),
	}
}

// applyDefaults fills missing fields with the documented defaults and
// records which fields were substituted. Summary deliberately defaults to
// empty: a fabricated summary is worse than none, the normalizer backfills
// it from the body later.
func applyDefaults(r *Result, originalTitle, cleaned string) {
	if r.Title == "" {
		r.Title = strings.TrimSpace(originalTitle)
		r.DefaultedFields = append(r.DefaultedFields, "title")
	}
	if r.Summary == "" {
		r.DefaultedFields = append(r.DefaultedFields, "summary")
	}
	if r.Content == "" {
		// Neither contract matched anything; the whole response is the body.
		r.Content = cleaned
		r.DefaultedFields = append(r.DefaultedFields, "content")
	}
	if r.MetaTitle == "" {
		r.MetaTitle = r.Title
		r.DefaultedFields = append(r.DefaultedFields, "metaTitle")
	}
	if r.MetaDescription == "" {
		r.MetaDescription = r.Summary
		r.DefaultedFields = append(r.DefaultedFields, "metaDescription")
	}
	if r.Country == "" {
		r.Country = DefaultCountry
		r.DefaultedFields = append(r.DefaultedFields, "country")
	}
	if r.Category == "" {
		r.Category = DefaultCategory
		r.DefaultedFields = append(r.DefaultedFields, "category")
	}
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
