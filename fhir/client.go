// Package fhir provides a client for paginated FHIR ValueSet expansion.
//
// The client repeatedly queries a terminology server's ValueSet/$expand
// endpoint with an offset/count window and streams the contained concepts
// as a lazy, one-pass, non-restartable sequence. All pages of one expansion
// share a single HTTP session.
package fhir

import (
	"context"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/gofhir/termindex/pkg/fault"
)

const (
	// DefaultServerURL is the public tx server used when none is configured.
	DefaultServerURL = "https://tx.ontoserver.csiro.au/fhir"

	// DefaultPageSize is the expansion window requested per page.
	DefaultPageSize = 100

	// DefaultTimeout for each page request.
	DefaultTimeout = 30 * time.Second

	opExpand = "fhir.expand"
)

// Client queries a FHIR terminology server.
type Client struct {
	http     *resty.Client
	log      *zap.Logger
	pageSize int
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithPageSize sets the expansion page size.
func WithPageSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithRetry enables transport-level retries for page requests. Retries are
// off by default; the pipeline itself never retries.
func WithRetry(count int, wait time.Duration) ClientOption {
	return func(c *Client) {
		c.http.SetRetryCount(count).SetRetryWaitTime(wait)
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(log *zap.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient creates a client for the given server base URL
// (e.g. "https://tx.ontoserver.csiro.au/fhir").
func NewClient(serverURL string, opts ...ClientOption) *Client {
	if serverURL == "" {
		serverURL = DefaultServerURL
	}

	c := &Client{
		http: resty.New().
			SetBaseURL(serverURL).
			SetTimeout(DefaultTimeout).
			SetHeader("Accept", "application/fhir+json"),
		log:      zap.NewNop(),
		pageSize: DefaultPageSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ConceptResult is one element of the expansion stream: either a concept or
// the error that terminated the stream.
type ConceptResult struct {
	Concept *Concept
	Err     error
}

// Expand streams every concept of the value set's expansion, fetching pages
// of pageSize concepts until the total reported by the first page is
// reached. The returned channel is closed when the expansion is exhausted or
// after the first error; a failed stream cannot be resumed.
func (c *Client) Expand(ctx context.Context, valueSetURL, displayLanguage string) <-chan ConceptResult {
	out := make(chan ConceptResult, c.pageSize)

	go func() {
		defer close(out)

		offset := 0
		total := 0

		for page := 0; ; page++ {
			pageTotal, concepts, err := c.fetchPage(ctx, valueSetURL, displayLanguage, offset)
			if err != nil {
				out <- ConceptResult{Err: err}
				return
			}
			if page == 0 {
				// The total from the first page governs the whole run.
				total = pageTotal
				c.log.Info("expanding value set",
					zap.String("url", valueSetURL),
					zap.Int("total", total),
					zap.Int("page_size", c.pageSize),
				)
			}

			for i := range concepts {
				select {
				case out <- ConceptResult{Concept: &concepts[i]}:
				case <-ctx.Done():
					// Best effort: the consumer may already be gone.
					select {
					case out <- ConceptResult{Err: fault.Transport(opExpand, ctx.Err())}:
					default:
					}
					return
				}
			}

			offset += c.pageSize
			if offset >= total {
				return
			}
		}
	}()

	return out
}

// fetchPage issues one $expand request and decodes its body.
func (c *Client) fetchPage(ctx context.Context, valueSetURL, displayLanguage string, offset int) (total int, concepts []Concept, err error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"url":                 valueSetURL,
			"displayLanguage":     displayLanguage,
			"includeDesignations": "true",
			"activeOnly":          "true",
			"count":               strconv.Itoa(c.pageSize),
			"offset":              strconv.Itoa(offset),
		}).
		Get("/ValueSet/$expand")
	if err != nil {
		return 0, nil, fault.Transport(opExpand, err)
	}
	if resp.IsError() {
		return 0, nil, fault.Protocol(opExpand, "server returned status %d for offset %d", resp.StatusCode(), offset)
	}

	total, concepts, err = decodeExpansion(opExpand, resp.Body())
	if err != nil {
		return 0, nil, err
	}

	c.log.Debug("fetched expansion page",
		zap.Int("offset", offset),
		zap.Int("concepts", len(concepts)),
	)
	return total, concepts, nil
}
