package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gokatarajesh/extreme-startup/internal/question"
)

// TriviaAPIClient fetches trivia from The Trivia API. The key is optional.
type TriviaAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewTriviaAPIClient(baseURL, apiKey string, httpClient *http.Client) *TriviaAPIClient {
	if baseURL == "" {
		baseURL = "https://the-trivia-api.com/api"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &TriviaAPIClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type TriviaAPIQuestion struct {
	ID         string   `json:"id"`
	Category   string   `json:"category"`
	Question   string   `json:"question"`
	Difficulty string   `json:"difficulty"`
	Type       string   `json:"type"`
	Correct    string   `json:"correctAnswer"`
	Incorrect  []string `json:"incorrectAnswers"`
}

func (c *TriviaAPIClient) Fetch(ctx context.Context, amount int, category, difficulty string) ([]TriviaAPIQuestion, error) {
	values := url.Values{}
	values.Set("limit", fmt.Sprint(amount))
	if difficulty != "" {
		values.Set("difficulty", difficulty)
	}
	if category != "" {
		values.Set("categories", category)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/questions?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("triviaapi non-200: %d", resp.StatusCode)
	}

	var payload []TriviaAPIQuestion
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchTrivia returns general knowledge bank entries.
func (c *TriviaAPIClient) FetchTrivia(ctx context.Context, amount int, difficulty string) ([]question.TriviaItem, error) {
	results, err := c.Fetch(ctx, amount, "general_knowledge", difficulty)
	if err != nil {
		return nil, err
	}
	items := make([]question.TriviaItem, 0, len(results))
	for _, r := range results {
		q, a := strings.TrimSpace(r.Question), strings.TrimSpace(r.Correct)
		if q == "" || a == "" {
			continue
		}
		items = append(items, question.TriviaItem{Question: q, Answer: a})
	}
	return items, nil
}

var (
	_ question.TriviaFetcher = (*TriviaAPIClient)(nil)
	_ question.TriviaFetcher = (*OpenTDBClient)(nil)
)
