package frontmatter

import (
	"strings"
	"testing"
)

func TestParse_RoundTrip(t *testing.T) {
	record := []byte(`---
title: "A Week in Patagonia"
summary: "Glaciers, wind and empty roads."
date: "2026-03-01T09:00:00Z"
country: Argentina
type: Adventure
imageUrl: "https://images.unsplash.com/photo-1"
slug: a-week-in-patagonia
photographer:
  name: "Jane Doe"
  url: "https://unsplash.com/@janedoe"
---

The road south from El Calafate is gravel for most of its length.
`)

	story, body, err := Parse(record)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if story.Title != "A Week in Patagonia" {
		t.Errorf("title = %q", story.Title)
	}
	if story.Photographer.Name != "Jane Doe" || story.Photographer.URL != "https://unsplash.com/@janedoe" {
		t.Errorf("photographer = %+v", story.Photographer)
	}
	if !strings.Contains(body, "gravel for most") {
		t.Errorf("body = %q", body)
	}

	out, err := Render(story, body)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	reparsed, rebody, err := Parse(out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if reparsed.Title != story.Title || rebody != body {
		t.Error("render/parse round trip changed the record")
	}
}

func TestParse_BareStringPhotographer(t *testing.T) {
	record := []byte(`---
title: "Test"
photographer: "Jane Doe"
---
Body.
`)

	story, _, err := Parse(record)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if story.Photographer.Name != "Jane Doe" {
		t.Errorf("bare-string photographer should become the name, got %+v", story.Photographer)
	}
	if story.Photographer.URL != "" {
		t.Errorf("url should be empty until repair, got %q", story.Photographer.URL)
	}
}

func TestParse_KeywordsAsCommaScalar(t *testing.T) {
	record := []byte(`---
title: "Test"
keywords: "cruise, alaska , glaciers"
---
Body.
`)

	story, _, err := Parse(record)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []string{"cruise", "alaska", "glaciers"}
	if len(story.Keywords) != len(want) {
		t.Fatalf("keywords = %v", story.Keywords)
	}
	for i, k := range want {
		if story.Keywords[i] != k {
			t.Errorf("keywords[%d] = %q, want %q", i, story.Keywords[i], k)
		}
	}
}

func TestParse_NoHeaderFails(t *testing.T) {
	if _, _, err := Parse([]byte("just body text\n")); err == nil {
		t.Fatal("expected error for a record with no header")
	}
}

func TestParse_UnterminatedHeaderFails(t *testing.T) {
	if _, _, err := Parse([]byte("---\ntitle: x\n")); err == nil {
		t.Fatal("expected error for an unterminated header")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"A Week in Patagonia", "a-week-in-patagonia"},
		{"  Cruise News: 2026!  ", "cruise-news-2026"},
		{"déjà vu", "d-j-vu"},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTitleFromSlug(t *testing.T) {
	if got := TitleFromSlug("a-week-in-patagonia"); got != "A Week In Patagonia" {
		t.Errorf("TitleFromSlug = %q", got)
	}
}
