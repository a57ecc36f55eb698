// Package frontmatter models the structured header block carried by every
// persisted story and repairs malformed headers left behind by earlier
// pipeline runs or manual edits.
package frontmatter

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Photographer is always an object with name and url. Legacy records
// stored a bare string; the custom unmarshal coerces that into the object
// shape so the rest of the code never sees a string.
type Photographer struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

func (p *Photographer) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		p.Name = strings.TrimSpace(value.Value)
		p.URL = ""
		return nil
	}

	type plain Photographer
	var decoded plain
	if err := value.Decode(&decoded); err != nil {
		return err
	}
	*p = Photographer(decoded)
	return nil
}

// StringList accepts either a YAML sequence or a comma-separated scalar,
// both of which appear in the corpus for keywords.
type StringList []string

func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var parts []string
		for _, p := range strings.Split(value.Value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		*s = parts
		return nil
	}

	var decoded []string
	if err := value.Decode(&decoded); err != nil {
		return err
	}
	*s = decoded
	return nil
}

// Story is the recognized frontmatter field set. Date stays a string in
// the model; the normalizer owns parsing and repair.
type Story struct {
	Title           string       `yaml:"title"`
	Summary         string       `yaml:"summary,omitempty"`
	Excerpt         string       `yaml:"excerpt,omitempty"`
	Date            string       `yaml:"date"`
	Country         string       `yaml:"country"`
	Type            string       `yaml:"type"`
	ImageURL        string       `yaml:"imageUrl"`
	ImageAlt        string       `yaml:"imageAlt,omitempty"`
	ImageCredit     string       `yaml:"imageCredit,omitempty"`
	ImageLink       string       `yaml:"imageLink,omitempty"`
	Slug            string       `yaml:"slug"`
	MetaTitle       string       `yaml:"metaTitle,omitempty"`
	MetaDescription string       `yaml:"metaDescription,omitempty"`
	Keywords        StringList   `yaml:"keywords,omitempty"`
	Photographer    Photographer `yaml:"photographer"`
}

const delimiter = "---"

// Parse splits a record into its header and body. Returns an error only
// when no recognizable header block exists; the normalizer synthesizes a
// header in that case rather than rejecting the record.
func Parse(content []byte) (*Story, string, error) {
	text := strings.TrimLeft(string(content), "\uFEFF\n\r ")
	if !strings.HasPrefix(text, delimiter) {
		return nil, string(content), fmt.Errorf("no frontmatter block")
	}

	rest := text[len(delimiter):]
	end := strings.Index(rest, "\n"+delimiter)
	if end == -1 {
		return nil, string(content), fmt.Errorf("unterminated frontmatter block")
	}

	header := rest[:end]
	body := rest[end+len(delimiter)+1:]
	body = strings.TrimLeft(body, "\n")

	var story Story
	if err := yaml.Unmarshal([]byte(header), &story); err != nil {
		return nil, string(content), fmt.Errorf("malformed frontmatter: %w", err)
	}

	return &story, body, nil
}

// Render serializes the header and body back into a record.
func Render(story *Story, body string) ([]byte, error) {
	header, err := yaml.Marshal(story)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString(delimiter)
	b.WriteString("\n")
	b.Write(header)
	b.WriteString(delimiter)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimLeft(body, "\n"))
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a file identity key from a title: lowercase, runs of
// non-alphanumerics collapsed to single hyphens.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// TitleFromSlug is the inverse used when synthesizing a header:
// de-hyphenate and title-case.
func TitleFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.TrimSpace(strings.Join(words, " "))
}
