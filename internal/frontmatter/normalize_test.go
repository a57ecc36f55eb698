package frontmatter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/globaltravelreport/ingest/internal/images"
)

func fixedNormalizer() *Normalizer {
	return &Normalizer{now: func() time.Time {
		return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	}}
}

func normalize(t *testing.T, record, slug string) (*Story, string, RepairStats) {
	t.Helper()
	out, stats, err := fixedNormalizer().Normalize([]byte(record), slug)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	story, body, err := Parse(out)
	if err != nil {
		t.Fatalf("parse normalized output: %v", err)
	}
	return story, body, stats
}

func TestNormalize_CleanRecordUntouched(t *testing.T) {
	record := `---
title: "A Week in Patagonia"
summary: "Glaciers and wind."
date: "2026-03-01T09:00:00Z"
country: Argentina
type: Adventure
imageUrl: "https://images.unsplash.com/photo-1"
slug: a-week-in-patagonia
photographer:
  name: "Jane Doe"
  url: "https://unsplash.com/@janedoe"
---

Body paragraph.
`
	story, _, stats := normalize(t, record, "a-week-in-patagonia")
	if stats.Total() != 0 {
		t.Errorf("clean record should need no repairs, got %+v", stats)
	}
	if story.Country != "Argentina" || story.Date != "2026-03-01T09:00:00Z" {
		t.Errorf("clean fields changed: %+v", story)
	}
}

func TestNormalize_SlugAuthority(t *testing.T) {
	record := `---
title: "T"
slug: whatever-was-stored
date: "2026-03-01T09:00:00Z"
---
Body.
`
	story, _, stats := normalize(t, record, "actual-file-key")
	if story.Slug != "actual-file-key" {
		t.Errorf("slug = %q, identity key must win", story.Slug)
	}
	if stats.SlugFixed != 1 {
		t.Errorf("SlugFixed = %d", stats.SlugFixed)
	}
}

func TestNormalize_DateRepair(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		wantFixed bool
		want      string
	}{
		{"unparsable garbage", "not a date at all", true, "2026-02-01T12:00:00Z"},
		{"empty", "", true, "2026-02-01T12:00:00Z"},
		{"future date preserved", "2030-01-01T00:00:00Z", false, "2030-01-01T00:00:00Z"},
		{"date-only layout accepted", "2026-01-15", false, "2026-01-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := "---\ntitle: T\ndate: \"" + tt.date + "\"\n---\nBody.\n"
			story, _, stats := normalize(t, record, "t")
			if (stats.DateFixed == 1) != tt.wantFixed {
				t.Errorf("DateFixed = %d, wantFixed %v", stats.DateFixed, tt.wantFixed)
			}
			if story.Date != tt.want {
				t.Errorf("date = %q, want %q", story.Date, tt.want)
			}
		})
	}
}

func TestNormalize_CategoryInCountryField(t *testing.T) {
	record := `---
title: "T"
date: "2026-03-01T09:00:00Z"
country: Travel
---
Body.
`
	story, _, stats := normalize(t, record, "t")
	if story.Country != DefaultCountry {
		t.Errorf("country = %q, want %q", story.Country, DefaultCountry)
	}
	if story.Type != "Travel" {
		t.Errorf("type = %q, the category should move to the type field", story.Type)
	}
	if stats.CountryFixed != 1 || stats.TypeFixed != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestNormalize_UnknownCountryBecomesGlobal(t *testing.T) {
	record := `---
title: "T"
date: "2026-03-01T09:00:00Z"
country: Unknown
type: Cruise
---
Body.
`
	story, _, _ := normalize(t, record, "t")
	if story.Country != DefaultCountry {
		t.Errorf("country = %q, want %q", story.Country, DefaultCountry)
	}
	if story.Type != "Cruise" {
		t.Errorf("existing type should be preserved, got %q", story.Type)
	}
}

func TestNormalize_ImageURLRepair(t *testing.T) {
	for _, bad := range []string{"", ">-", "images/photo.jpg", "ftp://example.com/x.jpg"} {
		record := "---\ntitle: T\ndate: \"2026-03-01T09:00:00Z\"\nimageUrl: \"" + bad + "\"\n---\nBody.\n"
		story, _, stats := normalize(t, record, "t")
		if story.ImageURL != images.DefaultEntry.ImageURL {
			t.Errorf("imageUrl %q: got %q, want the fixed default", bad, story.ImageURL)
		}
		if stats.ImageFixed != 1 {
			t.Errorf("imageUrl %q: ImageFixed = %d", bad, stats.ImageFixed)
		}
	}

	record := "---\ntitle: T\ndate: \"2026-03-01T09:00:00Z\"\nimageUrl: \"https://images.unsplash.com/photo-2\"\n---\nBody.\n"
	story, _, stats := normalize(t, record, "t")
	if story.ImageURL != "https://images.unsplash.com/photo-2" || stats.ImageFixed != 0 {
		t.Errorf("valid imageUrl changed: %q (ImageFixed=%d)", story.ImageURL, stats.ImageFixed)
	}
}

func TestNormalize_BareStringPhotographerGetsDefaultURL(t *testing.T) {
	record := `---
title: "T"
date: "2026-03-01T09:00:00Z"
photographer: "Jane Doe"
---
Body.
`
	story, _, stats := normalize(t, record, "t")
	if story.Photographer.Name != "Jane Doe" {
		t.Errorf("name = %q", story.Photographer.Name)
	}
	if story.Photographer.URL != DefaultPhotographerURL {
		t.Errorf("url = %q, want %q", story.Photographer.URL, DefaultPhotographerURL)
	}
	if stats.PhotographerFixed != 1 {
		t.Errorf("PhotographerFixed = %d", stats.PhotographerFixed)
	}
}

func TestNormalize_MissingPhotographerGetsDefaultObject(t *testing.T) {
	record := `---
title: "T"
date: "2026-03-01T09:00:00Z"
---
Body.
`
	story, _, _ := normalize(t, record, "t")
	if story.Photographer.Name != DefaultPhotographer || story.Photographer.URL != DefaultPhotographerURL {
		t.Errorf("photographer = %+v", story.Photographer)
	}
}

func TestNormalize_SummaryBackfill(t *testing.T) {
	record := `---
title: "T"
date: "2026-03-01T09:00:00Z"
---
The ferry leaves at dawn. Most passengers sleep through the crossing.

Second paragraph.
`
	story, _, stats := normalize(t, record, "t")
	if story.Summary != "The ferry leaves at dawn." {
		t.Errorf("summary = %q", story.Summary)
	}
	if stats.SummaryFixed != 1 {
		t.Errorf("SummaryFixed = %d", stats.SummaryFixed)
	}
}

func TestNormalize_SummaryPrefersExcerpt(t *testing.T) {
	record := `---
title: "T"
date: "2026-03-01T09:00:00Z"
excerpt: "A short excerpt."
---
Body sentence. More body.
`
	story, _, _ := normalize(t, record, "t")
	if story.Summary != "A short excerpt." {
		t.Errorf("summary = %q, want the excerpt", story.Summary)
	}
}

func TestNormalize_SynthesizesHeaderFromBareBody(t *testing.T) {
	record := "A story that lost its header somewhere along the way.\n\nSecond paragraph.\n"

	story, body, stats := normalize(t, record, "lost-header-story")
	if stats.HeaderSynthesized != 1 {
		t.Errorf("HeaderSynthesized = %d", stats.HeaderSynthesized)
	}
	if story.Title != "Lost Header Story" {
		t.Errorf("title = %q", story.Title)
	}
	if story.Slug != "lost-header-story" {
		t.Errorf("slug = %q", story.Slug)
	}
	if !strings.Contains(body, "lost its header") {
		t.Errorf("body = %q", body)
	}
}

func TestNormalize_BodyNeverModified(t *testing.T) {
	body := "First paragraph with   odd spacing.\n\n> a quote\n\n```\ncode block\n```\n"
	record := "---\ntitle: T\ndate: \"garbage\"\ncountry: cruise line news\nimageUrl: \">-\"\n---\n" + body

	out, _, err := fixedNormalizer().Normalize([]byte(record), "t")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	_, gotBody, err := Parse(out)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if gotBody != body {
		t.Errorf("body changed:\n%q\nwant:\n%q", gotBody, body)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	records := []string{
		"---\ntitle: T\ndate: \"garbage\"\ncountry: Travel\nimageUrl: \">-\"\nphotographer: \"Jane Doe\"\n---\nBody sentence. More.\n",
		"A bare body with no header at all.\n",
		"---\ntitle: \"Clean\"\nsummary: \"S\"\ndate: \"2026-03-01T09:00:00Z\"\ncountry: Japan\ntype: Culture\nimageUrl: \"https://images.unsplash.com/photo-3\"\nslug: clean\nphotographer:\n  name: \"N\"\n  url: \"https://unsplash.com/@n\"\n---\nBody.\n",
	}

	n := fixedNormalizer()
	for i, record := range records {
		first, _, err := n.Normalize([]byte(record), "some-key")
		if err != nil {
			t.Fatalf("record %d first pass: %v", i, err)
		}
		second, stats, err := n.Normalize(first, "some-key")
		if err != nil {
			t.Fatalf("record %d second pass: %v", i, err)
		}
		if stats.Total() != 0 {
			t.Errorf("record %d: second pass reported repairs: %+v", i, stats)
		}
		if !bytes.Equal(first, second) {
			t.Errorf("record %d: second pass changed bytes:\n%q\nvs\n%q", i, first, second)
		}
	}
}
