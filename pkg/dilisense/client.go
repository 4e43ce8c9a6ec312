package dilisense

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.dilisense.com/v1"

// Client screens names against sanctions, PEP and criminal watchlists
// via the dilisense API.
type Client interface {
	CheckIndividual(ctx context.Context, req CheckRequest) (*CheckResponse, error)
	CheckEntity(ctx context.Context, req CheckRequest) (*CheckResponse, error)
}

// CheckRequest identifies the subject to screen.
type CheckRequest struct {
	// Names is the full name to search for.
	Names string
	// DOB optionally narrows individual matches, format "01/1980" or "1980".
	DOB string
	// FuzzySearch enables approximate name matching (1 or 2 typos).
	FuzzySearch int
}

// CheckResponse is the screening result for one subject.
type CheckResponse struct {
	Timestamp    int64    `json:"timestamp"`
	TotalHits    int      `json:"total_hits"`
	FoundRecords []Record `json:"found_records"`
}

// Record is a single watchlist match.
type Record struct {
	SourceType      string   `json:"source_type"` // "SANCTION", "PEP", "CRIMINAL"
	SourceID        string   `json:"source_id"`
	PEPType         string   `json:"pep_type,omitempty"`
	Name            string   `json:"name"`
	AliasNames      []string `json:"alias_names,omitempty"`
	Gender          string   `json:"gender,omitempty"`
	DateOfBirth     []string `json:"date_of_birth,omitempty"`
	Citizenship     []string `json:"citizenship,omitempty"`
	Jurisdiction    []string `json:"jurisdiction,omitempty"`
	SanctionDetails []string `json:"sanction_details,omitempty"`
	Description     string   `json:"description,omitempty"`
	LastUpdated     int64    `json:"last_updated_utc,omitempty"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default request rate limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a dilisense API client. Requests are rate limited to
// stay inside the API plan's quota.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(2), 4),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) CheckIndividual(ctx context.Context, req CheckRequest) (*CheckResponse, error) {
	return c.check(ctx, "/checkIndividual", req)
}

func (c *httpClient) CheckEntity(ctx context.Context, req CheckRequest) (*CheckResponse, error) {
	return c.check(ctx, "/checkEntity", req)
}

func (c *httpClient) check(ctx context.Context, path string, req CheckRequest) (*CheckResponse, error) {
	if req.Names == "" {
		return nil, eris.New("dilisense: names is required")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "dilisense: rate limit wait")
	}

	q := url.Values{}
	q.Set("names", req.Names)
	if req.DOB != "" {
		q.Set("dob", req.DOB)
	}
	if req.FuzzySearch > 0 {
		q.Set("fuzzy_search", strconv.Itoa(req.FuzzySearch))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "dilisense: create request")
	}
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "dilisense: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "dilisense: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("dilisense: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result CheckResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "dilisense: unmarshal response")
	}

	return &result, nil
}
