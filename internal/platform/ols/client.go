// Package ols resolves ingredient phrases against an Ontology Lookup Service
// search endpoint.
package ols

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/yungbote/recipegraph-backend/internal/domain/recipes"
	pkgerrors "github.com/yungbote/recipegraph-backend/internal/pkg/errors"
	"github.com/yungbote/recipegraph-backend/internal/pkg/httpx"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
)

const maxBodyBytes = 4 << 20

type Client struct {
	log  *logger.Logger
	cfg  Config
	http *http.Client
}

// NewClient validates cfg after filling defaults. httpClient may be nil.
func NewClient(log *logger.Logger, cfg Config, httpClient *http.Client) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("ols: logger required")
	}
	cfg = cfg.withDefaults()
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		log:  log.With("client", "OLS", "ontology", cfg.Ontology),
		cfg:  cfg,
		http: httpClient,
	}, nil
}

type searchEnvelope struct {
	Response *searchResponse `json:"response"`
}

type searchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []searchDoc `json:"docs"`
}

type searchDoc struct {
	Label       string   `json:"label"`
	IRI         string   `json:"iri"`
	Description []string `json:"description"`
}

// Resolve returns the first search hit for phrase, or nil when the ontology
// has no candidate. Transport, status and decoding problems are errors.
func (c *Client) Resolve(ctx context.Context, phrase string) (*recipes.ResolvedConcept, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return nil, fmt.Errorf("ols resolve: empty phrase: %w", pkgerrors.ErrInvalidArgument)
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		concept, err := c.searchOnce(ctx, phrase)
		if err == nil {
			return concept, nil
		}
		lastErr = err
		if attempt == c.cfg.MaxRetries || !retryable(err) {
			break
		}
		wait := httpx.Backoff(attempt, c.cfg.RetryBase, 0)
		c.log.Debug("ols search retry", "phrase", phrase, "attempt", attempt+1, "wait", wait, "error", err)
		if sleepErr := httpx.Sleep(ctx, wait); sleepErr != nil {
			return nil, sleepErr
		}
	}
	return nil, lastErr
}

func (c *Client) searchOnce(ctx context.Context, phrase string) (*recipes.ResolvedConcept, error) {
	const op = "search"
	q := url.Values{}
	q.Set("q", phrase)
	q.Set("ontology", c.cfg.Ontology)
	q.Set("rows", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, opErr(op, OperationErrorTransportFailed, "build request failed", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyHTTPCallError(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, opErr(op, OperationErrorDecodeFailed, "read response failed", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &OperationError{
			Code:       OperationErrorStatus,
			Operation:  op,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("ols http status=%d body=%q", resp.StatusCode, truncateBody(raw)),
		}
	}
	return decodeSearch(raw)
}

func decodeSearch(raw []byte) (*recipes.ResolvedConcept, error) {
	const op = "search"
	var env searchEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, opErr(op, OperationErrorDecodeFailed, "decode search response failed", err)
	}
	if env.Response == nil {
		return nil, opErr(op, OperationErrorSchemaMismatch, "missing response object", pkgerrors.ErrSchemaMismatch)
	}
	if env.Response.Docs == nil {
		return nil, opErr(op, OperationErrorSchemaMismatch, "missing response.docs", pkgerrors.ErrSchemaMismatch)
	}
	if len(env.Response.Docs) == 0 {
		return nil, nil
	}
	first := env.Response.Docs[0]
	if strings.TrimSpace(first.Label) == "" || strings.TrimSpace(first.IRI) == "" {
		return nil, opErr(op, OperationErrorSchemaMismatch, "first candidate lacks label or iri", pkgerrors.ErrSchemaMismatch)
	}
	concept := &recipes.ResolvedConcept{Label: first.Label, ExternalID: first.IRI}
	if len(first.Description) > 0 {
		d := first.Description[0]
		concept.Description = &d
	}
	return concept, nil
}

func retryable(err error) bool {
	if httpx.IsRetryableError(err) {
		return true
	}
	var oe *OperationError
	return errors.As(err, &oe) && (oe.Code == OperationErrorTransportFailed || oe.Code == OperationErrorTimeout) &&
		!errors.Is(err, context.Canceled)
}

func classifyHTTPCallError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return opErr(op, OperationErrorTimeout, "ols request timed out", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return opErr(op, OperationErrorTimeout, "ols request timed out", err)
	}
	return opErr(op, OperationErrorTransportFailed, "ols request failed", err)
}

func truncateBody(raw []byte) string {
	const max = 512
	if len(raw) <= max {
		return string(raw)
	}
	return string(raw[:max]) + "..."
}
