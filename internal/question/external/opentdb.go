package external

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"time"

	"github.com/gokatarajesh/extreme-startup/internal/question"
)

// OpenTDBClient fetches extra trivia from the Open Trivia DB (no API key).
type OpenTDBClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewOpenTDBClient(baseURL string, httpClient *http.Client) *OpenTDBClient {
	if baseURL == "" {
		baseURL = "https://opentdb.com"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &OpenTDBClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

type OpenTDBQuestion struct {
	Category      string `json:"category"`
	Type          string `json:"type"`
	Difficulty    string `json:"difficulty"`
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
}

type openTDBResponse struct {
	ResponseCode int               `json:"response_code"`
	Results      []OpenTDBQuestion `json:"results"`
}

// Fetch returns free-text trivia. Only "multiple" questions are requested
// since boolean ones are too easy to guess.
func (c *OpenTDBClient) Fetch(ctx context.Context, amount int, difficulty string) ([]OpenTDBQuestion, error) {
	values := url.Values{}
	values.Set("amount", fmt.Sprint(amount))
	values.Set("type", "multiple")
	if difficulty != "" {
		values.Set("difficulty", difficulty)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api.php?%s", c.baseURL, values.Encode()), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("opentdb non-200: %d", resp.StatusCode)
	}

	var payload openTDBResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.ResponseCode != 0 {
		return nil, fmt.Errorf("opentdb response code %d", payload.ResponseCode)
	}
	return payload.Results, nil
}

// FetchTrivia converts OpenTDB results into bank entries, unescaping the
// HTML entities the API encodes text with.
func (c *OpenTDBClient) FetchTrivia(ctx context.Context, amount int, difficulty string) ([]question.TriviaItem, error) {
	results, err := c.Fetch(ctx, amount, difficulty)
	if err != nil {
		return nil, err
	}
	items := make([]question.TriviaItem, 0, len(results))
	for _, r := range results {
		q, a := html.UnescapeString(r.Question), html.UnescapeString(r.CorrectAnswer)
		if q == "" || a == "" {
			continue
		}
		items = append(items, question.TriviaItem{Question: q, Answer: a})
	}
	return items, nil
}
