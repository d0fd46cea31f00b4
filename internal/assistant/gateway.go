// Package assistant talks to an external text-generation service for small
// pieces of customer-facing copy. Every call degrades to a static fallback;
// the storefront never depends on the service being up.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/example/quickstore/internal/domain/order"
)

const (
	requestTimeout = 10 * time.Second
	maxTokens      = 300
)

// Gateway wraps the completion endpoint behind a circuit breaker so a slow
// or failing upstream cannot stall order processing.
type Gateway struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
	cb       *gobreaker.CircuitBreaker
}

func NewGateway(endpoint, apiKey, model string) *Gateway {
	st := gobreaker.Settings{
		Name:     "AssistantGateway",
		Interval: 10 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[AssistantGateway] Circuit breaker %s: %s -> %s", name, from, to)
		},
	}

	return &Gateway{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: requestTimeout},
		cb:       gobreaker.NewCircuitBreaker(st),
	}
}

// Enabled reports whether an endpoint is configured at all.
func (g *Gateway) Enabled() bool {
	return g != nil && g.endpoint != ""
}

type completionRequest struct {
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

func (g *Gateway) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:     g.model,
		Prompt:    prompt,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", err
	}

	result, err := g.cb.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if g.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+g.apiKey)
		}

		resp, err := g.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("assistant returned status %d", resp.StatusCode)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, err
		}

		var cr completionResponse
		if err := json.Unmarshal(data, &cr); err != nil {
			return nil, err
		}
		if len(cr.Choices) == 0 {
			return nil, fmt.Errorf("assistant returned no choices")
		}
		return strings.TrimSpace(cr.Choices[0].Text), nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// DraftOrderConfirmation writes the intro line for an order confirmation
// email. On any failure it returns a plain fallback.
func (g *Gateway) DraftOrderConfirmation(ctx context.Context, placed order.OrderPlaced) string {
	fallback := fmt.Sprintf("Thank you for your order, %s! Your order %s is being processed.",
		placed.CustomerName, placed.OrderID)
	if !g.Enabled() {
		return fallback
	}

	var names []string
	for _, item := range placed.Items {
		names = append(names, item.Name)
	}
	prompt := fmt.Sprintf(
		"Write one warm, short sentence thanking %s for ordering %s. No greeting line, no sign-off.",
		placed.CustomerName, strings.Join(names, ", "))

	text, err := g.complete(ctx, prompt)
	if err != nil {
		log.Printf("[AssistantGateway] Confirmation draft failed for %s: %v", placed.OrderID, err)
		return fallback
	}
	return text
}

// SupportTip suggests a first-response hint for a new support ticket. Very
// short messages carry too little signal to be worth a call.
func (g *Gateway) SupportTip(ctx context.Context, subject, message string) string {
	if !g.Enabled() || len(message) < 10 {
		return ""
	}

	prompt := fmt.Sprintf(
		"A customer opened a support ticket.\nSubject: %s\nMessage: %s\nSuggest, in two sentences, how a support agent should respond.",
		subject, message)

	text, err := g.complete(ctx, prompt)
	if err != nil {
		log.Printf("[AssistantGateway] Support tip failed: %v", err)
		return ""
	}
	return text
}

// ProductInsights summarizes reviews for the admin dashboard.
func (g *Gateway) ProductInsights(ctx context.Context, productName string, comments []string) string {
	fallback := fmt.Sprintf("No summary available for %s yet.", productName)
	if !g.Enabled() || len(comments) == 0 {
		return fallback
	}

	prompt := fmt.Sprintf(
		"Summarize what customers think about %q in at most three bullet points:\n- %s",
		productName, strings.Join(comments, "\n- "))

	text, err := g.complete(ctx, prompt)
	if err != nil {
		log.Printf("[AssistantGateway] Insights failed for %s: %v", productName, err)
		return fallback
	}
	return text
}
