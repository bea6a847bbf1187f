package ols

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	pkgerrors "github.com/yungbote/recipegraph-backend/internal/pkg/errors"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func newTestClient(t *testing.T, retries int, rt roundTripFunc) *Client {
	t.Helper()
	c, err := NewClient(logger.NewForTest(t), Config{
		BaseURL:    "http://ols.local/api",
		MaxRetries: retries,
		RetryBase:  time.Millisecond,
	}, &http.Client{Transport: rt})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestResolveRequestShapeAndFirstDocWins(t *testing.T) {
	c := newTestClient(t, 0, func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodGet {
			t.Fatalf("method: want=GET got=%s", r.Method)
		}
		if r.URL.Path != "/api/search" {
			t.Fatalf("path: got=%q", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "yellow onions" {
			t.Fatalf("q: got=%q", got)
		}
		if got := r.URL.Query().Get("ontology"); got != "foodon" {
			t.Fatalf("ontology: got=%q", got)
		}
		return jsonResponse(200, `{"response":{"numFound":2,"docs":[
			{"label":"onion","iri":"http://purl.obolibrary.org/obo/FOODON_03411132","description":["A bulb."]},
			{"label":"yellow onion","iri":"http://purl.obolibrary.org/obo/FOODON_2"}]}}`), nil
	})

	got, err := c.Resolve(context.Background(), "yellow onions")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got == nil || got.Label != "onion" || got.ExternalID != "http://purl.obolibrary.org/obo/FOODON_03411132" {
		t.Fatalf("unexpected concept: %+v", got)
	}
	if got.Description == nil || *got.Description != "A bulb." {
		t.Fatalf("description: %+v", got.Description)
	}
}

func TestResolveNoDescription(t *testing.T) {
	c := newTestClient(t, 0, func(*http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"response":{"docs":[{"label":"salt","iri":"x:salt","description":[]}]}}`), nil
	})
	got, err := c.Resolve(context.Background(), "salt")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Description != nil {
		t.Fatalf("want nil description, got=%q", *got.Description)
	}
}

func TestResolveZeroDocsIsNoMatch(t *testing.T) {
	c := newTestClient(t, 0, func(*http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"response":{"numFound":0,"docs":[]}}`), nil
	})
	got, err := c.Resolve(context.Background(), "unobtainium")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != nil {
		t.Fatalf("want no match, got=%+v", got)
	}
}

func TestResolveSchemaErrors(t *testing.T) {
	bodies := map[string]string{
		"not json":      `<html>`,
		"no response":   `{"docs":[]}`,
		"no docs":       `{"response":{"numFound":0}}`,
		"missing label": `{"response":{"docs":[{"iri":"x:1"}]}}`,
	}
	for name, body := range bodies {
		body := body
		c := newTestClient(t, 0, func(*http.Request) (*http.Response, error) {
			return jsonResponse(200, body), nil
		})
		got, err := c.Resolve(context.Background(), "onion")
		if err == nil {
			t.Fatalf("%s: expected error, got=%+v", name, got)
		}
		var oe *OperationError
		if !errors.As(err, &oe) {
			t.Fatalf("%s: expected OperationError, got=%T", name, err)
		}
		if name != "not json" && !errors.Is(err, pkgerrors.ErrSchemaMismatch) {
			t.Fatalf("%s: expected schema mismatch, got=%v", name, err)
		}
	}
}

func TestResolveRetriesServerErrors(t *testing.T) {
	calls := 0
	c := newTestClient(t, 2, func(*http.Request) (*http.Response, error) {
		calls++
		if calls < 3 {
			return jsonResponse(503, `busy`), nil
		}
		return jsonResponse(200, `{"response":{"docs":[{"label":"rice","iri":"x:rice"}]}}`), nil
	})
	got, err := c.Resolve(context.Background(), "rice")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if calls != 3 || got.Label != "rice" {
		t.Fatalf("calls=%d got=%+v", calls, got)
	}
}

func TestResolveDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	c := newTestClient(t, 3, func(*http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(400, `bad query`), nil
	})
	_, err := c.Resolve(context.Background(), "rice")
	var oe *OperationError
	if !errors.As(err, &oe) || oe.StatusCode != 400 || oe.Code != OperationErrorStatus {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls: want=1 got=%d", calls)
	}
}

func TestResolveTransportFailureIsError(t *testing.T) {
	c := newTestClient(t, 1, func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	_, err := c.Resolve(context.Background(), "rice")
	var oe *OperationError
	if !errors.As(err, &oe) || oe.Code != OperationErrorTransportFailed {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient(logger.NewForTest(t), Config{BaseURL: "not a url"}, nil)
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Code != ConfigErrorInvalidURL {
		t.Fatalf("unexpected error: %v", err)
	}
}
