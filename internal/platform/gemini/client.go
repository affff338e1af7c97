package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"ocipe/internal/recipe"
)

// Client extracts recipes from web pages with the Gemini API.
type Client struct {
	model *genai.GenerativeModel
}

// recipeSchema constrains the model output to the recipe write shape.
func recipeSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":      {Type: genai.TypeString, Description: "The name of the dish."},
			"meat_type": {Type: genai.TypeString, Description: "The type of meat used. Move any parenthesized notes into the 'note' field."},
			"longevity": {Type: genai.TypeInteger, Description: "The number of portions the recipe provides."},
			"frequency": {Type: genai.TypeString, Description: "'weekday' if quick and simple; 'weekend' if time-consuming or complex. Default to 'weekday' if unclear."},
			"note":      {Type: genai.TypeString, Description: "Step-by-step cooking instructions plus any extra notes."},
			"state":     {Type: genai.TypeString, Description: "Always set to 'active'."},
			"ingredients": {
				Type:        genai.TypeArray,
				Description: "A list of ingredients, each with a name and quantity.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":     {Type: genai.TypeString, Description: "The pure, base name of the ingredient, e.g. 'chicken thighs', 'soy sauce'."},
						"quantity": {Type: genai.TypeString, Description: "The quantity and unit of the ingredient, e.g. '200g', '1 tbsp'."},
					},
					Required: []string{"name", "quantity"},
				},
			},
		},
		Required: []string{"name", "meat_type", "longevity", "frequency", "note", "state", "ingredients"},
	}
}

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel("gemini-2.0-flash-lite")
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{
		genai.Text("You are an expert recipe extractor. Your task is to extract recipe details from the given URL and format them strictly following the given JSON schema."),
	}}
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = recipeSchema()
	temperature := float32(0.7)
	model.Temperature = &temperature

	return &Client{model: model}, nil
}

// ExtractRecipeFromURL asks the model for the recipe behind a URL and
// returns it in the recipe write shape.
func (c *Client) ExtractRecipeFromURL(ctx context.Context, url string) (*recipe.Input, error) {
	promptText := fmt.Sprintf(`Generate a recipe following the JSON schema from this link: %s.
For the 'name' field of each ingredient:
- Only include the pure, base name of the ingredient.
- EXCLUDE any text found within parentheses; move it into the 'note' field instead.
- EXCLUDE descriptive adjectives or preparations like 'thinly sliced', 'cooked', 'diced'.
For the 'note' field:
- ALWAYS INCLUDE STEP-BY-STEP cooking instructions.
- Include any extra note on what an ingredient is, e.g. dashi - japanese soup stock.`, url)

	resp, err := c.model.GenerateContent(ctx, genai.Text(promptText))
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	jsonString, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected response format from Gemini")
	}

	// The response is schema-constrained, but guard against markdown fencing
	// anyway.
	startIndex := strings.Index(string(jsonString), "{")
	endIndex := strings.LastIndex(string(jsonString), "}")
	if startIndex == -1 || endIndex == -1 || startIndex > endIndex {
		return nil, fmt.Errorf("could not find JSON object in response: %s", jsonString)
	}
	cleanJSON := string(jsonString)[startIndex : endIndex+1]

	var in recipe.Input
	if err := json.Unmarshal([]byte(cleanJSON), &in); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w. Raw response: %s", err, cleanJSON)
	}
	return &in, nil
}
