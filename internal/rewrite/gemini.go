package rewrite

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements Client over the Gemini API using the labeled
// delimiter-section response contract.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Name() string { return "gemini" }

func (c *GeminiClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

func (c *GeminiClient) Rewrite(ctx context.Context, req Request) (string, error) {
	model := c.client.GenerativeModel(c.model)

	prompt := fmt.Sprintf(`Rewrite this travel article into an original, engaging story. Keep all facts, places and prices from the source. Use travel keywords and an SEO-friendly headline.

SOURCE:
Title: %s
Content: %s

Respond strictly in this format, each label on its own line:

HEADLINE: <rewritten headline>

SUMMARY: <one or two sentence summary>

CONTENT: <the full rewritten article, several paragraphs>

KEYWORDS: <3-5 keywords, comma separated>

COUNTRY: <main country or region discussed>

CATEGORY: <one of: Travel, Cruise, Adventure, Culture, Food & Wine>
`, req.Title, truncateContent(req.Content))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

// truncateContent sanitizes and bounds the source text so prompts stay
// within provider limits. Cuts on a rune boundary, then backs up to a
// sentence end when one is reasonably close.
func truncateContent(content string) string {
	content = strings.ReplaceAll(content, "\r", "")
	content = strings.TrimSpace(content)

	maxChars := 6000
	if utf8.RuneCountInString(content) <= maxChars {
		return content
	}

	runes := []rune(content)
	trimmed := string(runes[:maxChars])
	if idx := strings.LastIndex(trimmed, ". "); idx > 1200 {
		trimmed = trimmed[:idx+1]
	}
	return trimmed + "\n[TRUNCATED]"
}
