// Package ai asks a vision model for a product name and description from a
// photo of the article.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sandyspace/catalog-manager/config"
	"github.com/sandyspace/catalog-manager/logger"
	"github.com/sandyspace/catalog-manager/models"
)

// ErrMissingAPIKey is returned before any network call when no key is configured.
var ErrMissingAPIKey = errors.New("ai api key is not configured")

const basePrompt = `
Tu es un assistant pour une boutique en ligne de mode appelee 'Univers de la mode'.

Analyse l'image du vetement et génère une réponse au **format JSON** strictement comme suit :
{
  "nom": "Un nom créatif, chic, en français pour le vetement",
  "description": "Une description élégante et détaillée en français, adaptée à une fiche produit e-commerce."
}
Les noms doivent etre uniques sans doublons et j'insiste.
Ne retourne rien d'autre que l'objet JSON.
`

const (
	fallbackName        = "Nom inconnu"
	fallbackDescription = "Description non générée."
)

type SettingsSource interface {
	GetSettings(ctx context.Context) models.AppSettings
}

type ProductSource interface {
	ListProductsByCategory(ctx context.Context, categoryID string) []models.Product
}

// Description is the generated product copy. Fallback is set when the model
// answered but its content could not be parsed.
type Description struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Fallback    bool   `json:"fallback"`
}

// APIError is a non-2xx answer from the completion endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

type Generator struct {
	settings   SettingsSource
	products   ProductSource
	httpClient *http.Client
	cfg        config.AIConfig
	logger     logger.ZapLogger
}

func NewGenerator(settings SettingsSource, products ProductSource, httpClient *http.Client, cfg config.AIConfig, log logger.ZapLogger) *Generator {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Generator{
		settings:   settings,
		products:   products,
		httpClient: httpClient,
		cfg:        cfg,
		logger:     log,
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Prompt builds the instruction text, asking for a name different from the
// ones already used in the category.
func Prompt(existingNames []string) string {
	if len(existingNames) == 0 {
		return basePrompt
	}
	names, _ := json.Marshal(existingNames)
	return basePrompt + fmt.Sprintf("\nLes noms suivants sont déjà utilisés : %s. Merci d'en générer un nouveau, différent de ceux-ci.", names)
}

// Generate describes the JPEG in base64Image. Names of products already in
// categoryID are sent along so the model avoids duplicates.
func (g *Generator) Generate(ctx context.Context, base64Image, categoryID string) (Description, error) {
	apiKey := g.settings.GetSettings(ctx).AIAPIKey
	if apiKey == "" {
		return Description{}, ErrMissingAPIKey
	}

	var names []string
	for _, p := range g.products.ListProductsByCategory(ctx, categoryID) {
		names = append(names, p.Name)
	}

	reqBody := chatRequest{
		Model: g.cfg.Model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: Prompt(names)},
				{Type: "image_url", ImageURL: &imageURL{URL: "data:image/jpeg;base64," + base64Image}},
			},
		}},
		MaxTokens: g.cfg.MaxTokens,
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return Description{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.Endpoint, bytes.NewReader(data))
	if err != nil {
		return Description{}, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Description{}, fmt.Errorf("ai request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Description{}, fmt.Errorf("ai response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("API responded with %d", resp.StatusCode)}
		var body errorResponse
		if json.Unmarshal(respBody, &body) == nil && body.Error.Message != "" {
			apiErr.Message = body.Error.Message
		}
		return Description{}, apiErr
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return Description{}, fmt.Errorf("ai response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return Description{}, errors.New("ai response has no choices")
	}

	desc, ok := ParseDescription(chat.Choices[0].Message.Content)
	if !ok {
		g.logger.Warn("unparseable ai content, using fallback", zap.String("category_id", categoryID))
	}
	return desc, nil
}

// ParseDescription extracts the JSON object between the first "{" and the
// last "}" of content. When that fails it returns the fallback copy and false.
func ParseDescription(content string) (Description, bool) {
	fallback := Description{Name: fallbackName, Description: fallbackDescription, Fallback: true}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return fallback, false
	}

	var parsed struct {
		Nom         string `json:"nom"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err != nil {
		return fallback, false
	}
	return Description{Name: parsed.Nom, Description: parsed.Description}, true
}
