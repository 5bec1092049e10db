package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultSearchPerPage = 10
	maxSearchPerPage     = 50
	maxReviewsPerPage    = 25
	minQueryLength       = 2
	maxResponseBytes     = 4 << 20
)

// Client represents an AniList GraphQL API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new AniList client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// SearchAnime returns anime matching query, most popular first. Queries
// shorter than two characters return no results without calling AniList.
func (c *Client) SearchAnime(ctx context.Context, query string, perPage int) ([]Anime, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryLength {
		return []Anime{}, nil
	}
	if perPage <= 0 {
		perPage = defaultSearchPerPage
	}
	perPage = clamp(perPage, 1, maxSearchPerPage)

	var data searchData
	err := c.doRequest(ctx, searchAnimeQuery, map[string]interface{}{
		"search":  query,
		"page":    1,
		"perPage": perPage,
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("failed to search anime: %w", err)
	}

	results := make([]Anime, 0, len(data.Page.Media))
	for _, m := range data.Page.Media {
		results = append(results, m.toAnime())
	}
	return results, nil
}

// GetAnime fetches a single anime by its AniList id
func (c *Client) GetAnime(ctx context.Context, id int) (*AnimeDetails, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}

	var data mediaData
	if err := c.doRequest(ctx, getAnimeQuery, map[string]interface{}{"id": id}, &data); err != nil {
		return nil, fmt.Errorf("failed to get anime %d: %w", id, err)
	}
	if data.Media == nil {
		return nil, ErrNotFound
	}

	details := data.Media.toDetails()
	return &details, nil
}

// GetReviews fetches the highest rated reviews for an anime
func (c *Client) GetReviews(ctx context.Context, animeID int, perPage int) ([]Review, error) {
	if perPage <= 0 {
		perPage = maxReviewsPerPage
	}
	perPage = clamp(perPage, 1, maxReviewsPerPage)

	var data reviewsData
	err := c.doRequest(ctx, getReviewsQuery, map[string]interface{}{
		"mediaId": animeID,
		"page":    1,
		"perPage": perPage,
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews for anime %d: %w", animeID, err)
	}

	reviews := make([]Review, 0, len(data.Page.Reviews))
	for _, r := range data.Page.Reviews {
		reviews = append(reviews, r.toReview())
	}
	return reviews, nil
}

// doRequest posts a GraphQL query and decodes the data member into out
func (c *Client) doRequest(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	reqBody, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return classifyTransportError(ctx, err)
	}

	var envelope struct {
		graphQLResponse
		Data json.RawMessage `json:"data"`
	}
	decodeErr := json.Unmarshal(body, &envelope)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		if decodeErr == nil && len(envelope.Errors) > 0 && envelope.Errors[0].Status == http.StatusNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("%w: unexpected status code %d", ErrUpstream, resp.StatusCode)
	}

	if decodeErr != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrUpstream, decodeErr)
	}
	if len(envelope.Errors) > 0 {
		if envelope.Errors[0].Status == http.StatusNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %s", ErrUpstream, envelope.Errors[0].Message)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: failed to decode data: %v", ErrUpstream, err)
	}
	return nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
