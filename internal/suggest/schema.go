package suggest

import (
	"fmt"

	"google.golang.org/genai"
)

// requiredFields lists the properties every generated entry must carry.
var requiredFields = []string{"id", "title", "author", "description", "coverUrl", "genre", "rating"}

// ResponseSchema is the structured-output schema sent with every request:
// an object with a books array of fully populated entries.
func ResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"books": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id":          {Type: genai.TypeString},
						"title":       {Type: genai.TypeString},
						"author":      {Type: genai.TypeString},
						"description": {Type: genai.TypeString},
						"coverUrl":    {Type: genai.TypeString},
						"genre":       {Type: genai.TypeString},
						"rating":      {Type: genai.TypeNumber},
					},
					Required: requiredFields,
				},
			},
		},
		Required: []string{"books"},
	}
}

// Prompt builds the natural-language instruction for a query.
func Prompt(query string, count int) string {
	return fmt.Sprintf(`Generate a list of %d distinct, popular, or interesting books related to %q.
If the query is generic (like "any"), choose a mix of bestsellers.
Return a JSON object with a "books" array.
For 'coverUrl', simply return a keyword string relevant to the book cover visual (e.g., 'mountain', 'cyberpunk', 'romance', 'space') that I can use to fetch a placeholder image.
Provide a short, punchy description (max 20 words).`, count, query)
}

func generationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   ResponseSchema(),
	}
}
