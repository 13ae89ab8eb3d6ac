// Package openai estimates grocery prices by prompting a chat-completions
// model. Estimates are demo-quality stand-ins for real scraped prices.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/shelfaware/backend/internal/domain"
)

// priceRegex matches dollar amounts in a model response.
var priceRegex = regexp.MustCompile(`\$?\d+\.?\d*`)

const promptTemplate = `What is the exact current price of %s at %s in Louisiana?
Please respond with ONLY a single number representing the price in dollars.
For example, if the price is $3.99, just respond with: 3.99
Do not include any other text or explanation.`

// Estimator asks a chat-completions model for price estimates
type Estimator struct {
	http        *resty.Client
	apiKey      string
	baseURL     string
	model       string
	rateLimiter *rate.Limiter
}

// NewEstimator creates a price estimator against the given API base URL
func NewEstimator(apiKey, baseURL, model string) *Estimator {
	httpClient := resty.New()
	httpClient.SetTimeout(60 * time.Second)

	return &Estimator{
		http:        httpClient,
		apiKey:      apiKey,
		baseURL:     baseURL,
		model:       model,
		rateLimiter: rate.NewLimiter(rate.Limit(2), 4),
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// EstimatePrice prompts the model for one (store, item) price. A response
// containing a price range averages to a single number; a response with no
// parseable price fails with ErrEstimateFailure.
func (e *Estimator) EstimatePrice(ctx context.Context, storeName, itemName string) (float64, error) {
	if err := e.rateLimiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limiter error: %w", err)
	}

	body := chatRequest{
		Model: e.model,
		Messages: []chatMessage{
			{Role: "user", Content: fmt.Sprintf(promptTemplate, itemName, storeName)},
		},
		// Low temperature keeps the numeric answers consistent.
		Temperature: 0.3,
	}

	resp, err := e.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+e.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(e.baseURL + "/v1/chat/completions")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrEstimateFailure, err)
	}
	if resp.StatusCode() != http.StatusOK {
		log.Printf("[openai] API error - Status: %d, Body: %s", resp.StatusCode(), resp.String())
		return 0, fmt.Errorf("%w: status %d", domain.ErrEstimateFailure, resp.StatusCode())
	}

	var parsed chatResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return 0, fmt.Errorf("%w: decode response: %v", domain.ErrEstimateFailure, err)
	}
	if len(parsed.Choices) == 0 {
		return 0, fmt.Errorf("%w: empty completion", domain.ErrEstimateFailure)
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	price, ok := extractPrice(content)
	if !ok {
		return 0, fmt.Errorf("%w: no price in %q", domain.ErrEstimateFailure, content)
	}
	return price, nil
}

// extractPrice pulls a dollar amount out of a model response. Multiple
// amounts (a quoted range) average; none at all reports failure.
func extractPrice(text string) (float64, bool) {
	matches := priceRegex.FindAllString(text, -1)
	if len(matches) == 0 {
		return 0, false
	}

	sum := 0.0
	n := 0
	for _, m := range matches {
		v, err := strconv.ParseFloat(strings.TrimPrefix(m, "$"), 64)
		if err != nil {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return roundCents(sum / float64(n)), true
}

func roundCents(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
