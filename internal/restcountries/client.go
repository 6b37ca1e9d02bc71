package restcountries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Gateway is the list-producing subset of the API used by the search
// coordinator. *Client implements it.
type Gateway interface {
	FetchAll(ctx context.Context) ([]Country, error)
	SearchByName(ctx context.Context, text string) ([]Country, error)
	FilterByRegion(ctx context.Context, region Region) ([]Country, error)
}

var _ Gateway = (*Client)(nil)

// Client talks to the REST Countries HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *zap.Logger
	lookups   singleflight.Group
}

const (
	DefaultBaseURL   = "https://restcountries.com/v3.1"
	defaultUserAgent = "atlas/0.1"
	defaultTimeout   = 10 * time.Second

	// listFields keeps list payloads small; the API caps fields at 10.
	listFields   = "name,cca3,capital,region,subregion,population,area,flags,flag"
	borderFields = "name,cca3,flag"
)

// Options configure NewClient. Zero values select defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient builds a Client for the given options.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:   base,
		http:      httpClient,
		userAgent: defaultUserAgent,
		logger:    logger.Named("restcountries"),
	}, nil
}

// FetchAll lists every country.
func (c *Client) FetchAll(ctx context.Context) ([]Country, error) {
	var payload []Country
	if err := c.get(ctx, "fetch all", c.endpoint(listFields, "all"), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SearchByName lists countries whose name contains text. An upstream 404
// means "no match" and yields an empty, non-nil slice.
func (c *Client) SearchByName(ctx context.Context, text string) ([]Country, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("search text is empty")
	}
	var payload []Country
	err := c.get(ctx, "search by name", c.endpoint(listFields, "name", trimmed), &payload)
	if err != nil {
		var netErr *NetworkError
		if errors.As(err, &netErr) && netErr.notFound() {
			return []Country{}, nil
		}
		return nil, err
	}
	return payload, nil
}

// FilterByRegion lists the countries of one region.
func (c *Client) FilterByRegion(ctx context.Context, region Region) ([]Country, error) {
	if region == RegionAll || !region.Valid() {
		return nil, fmt.Errorf("invalid region %q", region)
	}
	var payload []Country
	if err := c.get(ctx, "filter by region", c.endpoint(listFields, "region", string(region)), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Lookup returns the full record for a cca2/cca3 code. Concurrent lookups of
// the same code share one request.
func (c *Client) Lookup(ctx context.Context, code string) (Country, error) {
	key := strings.ToUpper(strings.TrimSpace(code))
	if key == "" {
		return Country{}, &NotFoundError{Code: code}
	}
	v, err, _ := c.lookups.Do(key, func() (any, error) {
		var payload []Country
		err := c.get(ctx, "lookup", c.endpoint("", "alpha", key), &payload)
		if err != nil {
			var netErr *NetworkError
			if errors.As(err, &netErr) && (netErr.notFound() || netErr.StatusCode == http.StatusBadRequest) {
				return Country{}, &NotFoundError{Code: key}
			}
			return Country{}, err
		}
		if len(payload) == 0 {
			return Country{}, &NotFoundError{Code: key}
		}
		return payload[0], nil
	})
	if err != nil {
		return Country{}, err
	}
	return v.(Country), nil
}

// LookupCodes resolves several codes in one request, used for border names.
// Unknown codes are silently absent from the result.
func (c *Client) LookupCodes(ctx context.Context, codes []string) ([]Country, error) {
	cleaned := make([]string, 0, len(codes))
	for _, code := range codes {
		if s := strings.ToUpper(strings.TrimSpace(code)); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return nil, nil
	}
	rel := c.endpoint(borderFields, "alpha")
	q := rel.Query()
	q.Set("codes", strings.Join(cleaned, ","))
	rel.RawQuery = q.Encode()

	var payload []Country
	if err := c.get(ctx, "lookup codes", rel, &payload); err != nil {
		var netErr *NetworkError
		if errors.As(err, &netErr) && netErr.notFound() {
			return []Country{}, nil
		}
		return nil, err
	}
	return payload, nil
}

// endpoint joins escaped path segments onto the base URL.
func (c *Client) endpoint(fields string, segments ...string) *url.URL {
	u := *c.baseURL
	escaped := make([]string, 0, len(segments))
	raw := make([]string, 0, len(segments))
	for _, s := range segments {
		raw = append(raw, s)
		escaped = append(escaped, url.PathEscape(s))
	}
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.Join(raw, "/")
	u.RawPath = strings.TrimRight(c.baseURL.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	if fields != "" {
		u.RawQuery = url.Values{"fields": {fields}}.Encode()
	}
	return &u
}

func (c *Client) get(ctx context.Context, op string, target *url.URL, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := target.String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", zap.String("op", op), zap.String("url", reqURL), zap.Error(err))
		return &NetworkError{Op: op, URL: reqURL, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request done",
		zap.String("op", op),
		zap.String("url", reqURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NetworkError{Op: op, URL: reqURL, StatusCode: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &NetworkError{Op: op, URL: reqURL, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api base url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
