package rewrite

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const openaiSystemMessage = `You are a travel journalist. Rewrite the input into an original, engaging travel article. Respond only with valid JSON in this format:
{
  "title": "",
  "summary": "",
  "content": "",
  "metaTitle": "",
  "metaDescription": "",
  "country": "",
  "category": "",
  "keywords": ["", "", ...]
}
No extra text or formatting. Make sure JSON is parseable. Use travel keywords and SEO-friendly headlines. Set country to the main country or region discussed and category to one of: Travel, Cruise, Adventure, Culture, Food & Wine.`

// OpenAIClient implements Client over the chat completion API using the
// strict-JSON response contract.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = openai.GPT4
	}
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIClient) Name() string { return "openai" }

func (c *OpenAIClient) Rewrite(ctx context.Context, req Request) (string, error) {
	userPrompt := fmt.Sprintf("Title: %s\n\n%s", req.Title, truncateContent(req.Content))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openaiSystemMessage},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned by openai")
	}

	return resp.Choices[0].Message.Content, nil
}
