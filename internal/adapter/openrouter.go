// Package adapter implements the outbound HTTP clients for the external
// collaborators of the ledger. The only collaborator reached over the wire
// directly by this module is the expense parser: a chat-completions
// endpoint that extracts a (category, subcategory, price) triple from an
// error-prone free-text report.
package adapter

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/dobryakk5/counter/internal/config"
	"github.com/dobryakk5/counter/internal/logger"
	"github.com/dobryakk5/counter/models"
	"github.com/go-resty/resty/v2"
)

// promptTemplate instructs the model to normalize the report and answer in
// the strict "category|subcategory|price" format. Missing prices must not
// be invented; missing words may be matched by sound and sense.
const promptTemplate = `Extract three elements from the text: a category, a subcategory (the product or service) and a price.
Fix typos and normalize word forms. Output the price in digits.
If the category or subcategory is unclear, pick the closest-sounding sensible word; never replace words that are already correct.
If there is no price digit in the text, do not invent one.

Output format, STRICTLY: category|subcategory|price

Examples:
1. Input: "food a bucket of potatos 500 rub" -> food|potatoes|500
2. Input: "transport taxi to the airport 1500 rub" -> transport|taxi|1500
3. Input: "entertanment cinema 300 rubles" -> entertainment|cinema|300

Process:
Input: "%s"
Output:`

// priceDigits pulls the leading number out of the price part in case the
// model appended text around it.
var priceDigits = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// OpenRouterParser talks to an OpenRouter-compatible chat-completions API
// and implements the expense-parser contract.
type OpenRouterParser struct {
	client *resty.Client
	model  string
	logger *logger.Logger
}

// NewOpenRouterParser constructs the parser client from cfg.
func NewOpenRouterParser(cfg config.Parser, log *logger.Logger) *OpenRouterParser {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.RequestTimeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("X-Title", "Counter")

	return &OpenRouterParser{
		client: cli,
		model:  cfg.Model,
		logger: log,
	}
}

// Parse sends the raw report to the completion endpoint and decodes the
// "category|subcategory|price" answer. A malformed answer is not an error:
// it returns ok=false and the ledger persists nothing.
func (p *OpenRouterParser) Parse(ctx context.Context, raw string) (models.ParsedExpense, bool, error) {
	log := logger.FromContext(ctx)

	body := chatCompletionRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "user", Content: fmt.Sprintf(promptTemplate, raw)},
		},
		MaxTokens:   50,
		Temperature: 0.1,
	}

	var completion chatCompletionResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&completion).
		Post("/chat/completions")
	if err != nil {
		return models.ParsedExpense{}, false, fmt.Errorf("parser request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return models.ParsedExpense{}, false, fmt.Errorf("parser request: unexpected status %d", resp.StatusCode())
	}
	if len(completion.Choices) == 0 {
		return models.ParsedExpense{}, false, nil
	}

	answer := strings.TrimSpace(completion.Choices[0].Message.Content)
	parts := strings.Split(answer, "|")
	if len(parts) < 3 {
		log.Debug().
			Str("func", "OpenRouterParser.Parse").
			Str("answer", answer).
			Msg("parser answer does not match the triple format")
		return models.ParsedExpense{}, false, nil
	}

	price := priceDigits.FindString(parts[2])
	if price == "" {
		return models.ParsedExpense{}, false, nil
	}

	parsed := models.ParsedExpense{
		Category:    strings.ToLower(strings.TrimSpace(parts[0])),
		Subcategory: strings.ToLower(strings.TrimSpace(parts[1])),
		Price:       strings.ReplaceAll(price, ",", "."),
	}

	return parsed, true, nil
}
