package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
)

const maxResponseSizeBytes = 4 << 20

// Config points at the external embedding & similarity search service that
// the ingestion pipeline populates ahead of time.
type Config struct {
	URL     string        `envconfig:"URL" split_words:"true" required:"true"`
	Token   string        `envconfig:"TOKEN" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// Client queries the retrieval service over REST. The service contract:
// POST {base}/query with {namespace, query, k} returns {"hits": [...]}.
// Unknown namespaces come back as an empty hit list, never an error.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ contractx.Retriever = (*Client)(nil)

type queryRequest struct {
	Namespace string `json:"namespace"`
	Query     string `json:"query"`
	K         int    `json:"k"`
}

type queryResponse struct {
	Hits []contractx.EvidenceHit `json:"hits"`
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("retrieval service url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid retrieval service url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		token:   strings.TrimSpace(cfg.Token),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (c *Client) Query(ctx context.Context, namespace string, query string, k int) ([]contractx.EvidenceHit, error) {
	if strings.TrimSpace(namespace) == "" {
		return nil, fmt.Errorf("%w: namespace is required", contractx.ErrValidation)
	}
	if k <= 0 {
		k = 1
	}

	body, err := json.Marshal(queryRequest{Namespace: namespace, Query: query, K: k})
	if err != nil {
		return nil, fmt.Errorf("marshal retrieval query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build retrieval request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrRetrievalUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read retrieval response: %w", err)
	}

	// the service signals an unknown namespace with 404; that is "no
	// evidence", not a failure
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: http status=%d body=%s", contractx.ErrRetrievalUnavailable, resp.StatusCode, string(raw))
	}

	var parsed queryResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode retrieval response: %w", err)
	}
	return parsed.Hits, nil
}
