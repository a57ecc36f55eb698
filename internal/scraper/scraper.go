package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ArticleContent is the extracted article text
type ArticleContent struct {
	Title   string
	Content string
	URL     string
}

type Scraper struct {
	client *http.Client
}

func New(timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Scraper{
		client: &http.Client{Timeout: timeout},
	}
}

// ExtractArticle fetches the page and strips boilerplate down to article text
func (s *Scraper) ExtractArticle(ctx context.Context, url string) (*ArticleContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; gtringest/1.0)")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}

	content := extractContentBySource(doc, url)
	title := extractTitle(doc)

	if content == "" {
		return nil, fmt.Errorf("can't get content")
	}

	return &ArticleContent{
		Title:   title,
		Content: content,
		URL:     url,
	}, nil
}

// extractContentBySource picks the selector set for known sources
func extractContentBySource(doc *goquery.Document, url string) string {
	var content string

	switch {
	case strings.Contains(url, "lonelyplanet.com"):
		content = extractBySelectors(doc, []string{
			".article-body p",
			"[data-testid='article-body'] p",
			"article p",
		}, 10)
	case strings.Contains(url, "travelandleisure.com"), strings.Contains(url, "cntraveler.com"):
		content = extractBySelectors(doc, []string{
			".article-content p",
			".body__inner-container p",
			".content p",
			"article p",
		}, 10)
	case strings.Contains(url, "cruisehive.com"), strings.Contains(url, "cruiseradio.net"),
		strings.Contains(url, "cruiseindustrynews.com"), strings.Contains(url, "cruisecritic.com"):
		content = extractBySelectors(doc, []string{
			".entry-content p",
			".post-content p",
			".article-body p",
			"article p",
		}, 10)
	default:
		content = extractGenericContent(doc)
	}

	return cleanContent(content)
}

func extractBySelectors(doc *goquery.Document, selectors []string, minLen int) string {
	var paragraphs []string

	for _, selector := range selectors {
		doc.Find(selector).Each(func(i int, sel *goquery.Selection) {
			text := strings.TrimSpace(sel.Text())
			if text != "" && len(text) > minLen {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) > 0 {
			break
		}
	}

	return strings.Join(paragraphs, "\n\n")
}

// extractGenericContent is the fallback for unknown sites
func extractGenericContent(doc *goquery.Document) string {
	var paragraphs []string

	selectors := []string{
		"article p",
		".article p",
		".content p",
		".post-content p",
		".entry-content p",
		"main p",
		"#content p",
		".text p",
		"p",
	}

	for _, selector := range selectors {
		doc.Find(selector).Each(func(i int, sel *goquery.Selection) {
			text := strings.TrimSpace(sel.Text())
			if text != "" && len(text) > 20 {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) >= 3 { // three real paragraphs is enough signal
			break
		}
	}

	return strings.Join(paragraphs, "\n\n")
}

// extractTitle gets the article title
func extractTitle(doc *goquery.Document) string {
	selectors := []string{
		"h1",
		"title",
		".article-title",
		".headline",
		".entry-title",
	}

	for _, selector := range selectors {
		title := doc.Find(selector).First().Text()
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	return ""
}

// cleanContent strips leftover markup and publisher boilerplate, then
// reassembles clean paragraphs and caps the total length.
func cleanContent(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "<br/>", " ")
	content = strings.ReplaceAll(content, "<p>", "\n\n")
	content = strings.ReplaceAll(content, "</p>", "")

	// Remove remaining HTML tags
	inTag := false
	var result strings.Builder
	for _, char := range content {
		if char == '<' {
			inTag = true
		} else if char == '>' {
			inTag = false
		} else if !inTag {
			result.WriteRune(char)
		}
	}

	content = strings.TrimSpace(result.String())

	// Boilerplate phrases common across the configured sources
	junkPhrases := []string{
		"Sign up for our newsletter",
		"Subscribe to our newsletter",
		"Get the latest travel news",
		"This post may contain affiliate links",
		"Affiliate Disclosure",
		"Read more:", "See also:", "Related:", "Watch:",
		"Click here to", "Follow us on",
		"Share this article", "Share on Facebook", "Pin it",
		"Advertisement", "ADVERTISEMENT", "Sponsored content",
		"Cookie", "Privacy Policy", "Terms of Service",
		"Log in", "Create an account",
	}

	for _, phrase := range junkPhrases {
		content = strings.ReplaceAll(content, phrase, "")
	}

	// Rebuild paragraphs
	lines := strings.Split(content, "\n")
	var cleanLines []string
	var currentParagraph strings.Builder

	flush := func() {
		if currentParagraph.Len() > 0 {
			paragraph := strings.TrimSpace(currentParagraph.String())
			if len(paragraph) > 30 {
				cleanLines = append(cleanLines, paragraph)
			}
			currentParagraph.Reset()
		}
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)

		// Skip empty and very short lines
		if len(line) < 8 {
			flush()
			continue
		}

		lower := strings.ToLower(line)
		isJunk := false
		junkIndicators := []string{
			"cookie", "advertisement", "sponsored", "newsletter",
			"click here", "follow us", "share this", "affiliate",
		}
		for _, indicator := range junkIndicators {
			if strings.Contains(lower, indicator) {
				isJunk = true
				break
			}
		}
		if isJunk {
			continue
		}

		if currentParagraph.Len() > 0 {
			currentParagraph.WriteString(" ")
		}
		currentParagraph.WriteString(line)

		// A sentence-final line closes the paragraph
		if strings.HasSuffix(line, ".") || strings.HasSuffix(line, "!") || strings.HasSuffix(line, "?") {
			flush()
		}
	}
	flush()

	resultText := strings.Join(cleanLines, "\n\n")

	for strings.Contains(resultText, "  ") {
		resultText = strings.ReplaceAll(resultText, "  ", " ")
	}
	for strings.Contains(resultText, "\n\n\n") {
		resultText = strings.ReplaceAll(resultText, "\n\n\n", "\n\n")
	}

	resultText = strings.TrimSpace(resultText)

	// Cap length on paragraph boundaries so the prompt stays bounded
	if len(resultText) > 6000 {
		paragraphs := strings.Split(resultText, "\n\n")
		var selected []string
		totalLength := 0

		for _, paragraph := range paragraphs {
			if totalLength+len(paragraph) < 5600 {
				selected = append(selected, paragraph)
				totalLength += len(paragraph) + 2
			} else {
				break
			}
		}

		if len(selected) > 0 {
			resultText = strings.Join(selected, "\n\n")
		}
	}

	return resultText
}
