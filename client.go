// Package go2web fetches web pages over raw HTTP/1.1 connections and keeps
// a private cache of the responses.
package go2web

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/always-cache/go2web/cache"
	"github.com/always-cache/go2web/pkg/http1"
	responsetransformer "github.com/always-cache/go2web/pkg/response-transformer"
	"github.com/always-cache/go2web/pkg/transport"
	"github.com/always-cache/go2web/rfc9111"
	"github.com/always-cache/go2web/rfc9211"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Storage for responses. A memory-only cache is created if nil.
	Cache *cache.ResponseCache
	// Dialer for origin connections. A dialer with the default timeout is used if nil.
	Dialer *transport.Dialer
	// User-Agent header to send. Defaults to http1.DefaultUserAgent.
	UserAgent string
	// Optional Accept-Language header to send.
	AcceptLanguage string
	// Maximum number of redirects to follow. Defaults to DefaultMaxRedirects.
	MaxRedirects int
	// Freshness lifetime of responses without Cache-Control max-age.
	// Defaults to rfc9111.DefaultLifetime.
	DefaultMaxAge time.Duration
	// Rules for changing Cache-Control of received responses.
	Rules responsetransformer.Rules
	// Optional function for transforming a 200 response body before it is
	// cached and returned.
	Process func(contentType, body string) string
	// Logger to use. The global zerolog logger is used if nil.
	Logger *zerolog.Logger
}

// Client fetches URLs one hop at a time, following redirects itself.
// It is safe for concurrent use.
type Client struct {
	cache          *cache.ResponseCache
	dialer         *transport.Dialer
	userAgent      string
	acceptLanguage string
	maxRedirects   int
	defaultMaxAge  time.Duration
	rules          responsetransformer.Rules
	process        func(contentType, body string) string
	log            zerolog.Logger
}

// Response is the outcome of the last hop of a fetch.
type Response struct {
	// URL of the final hop.
	URL         string
	StatusCode  int
	ContentType string
	Content     string
	CacheStatus rfc9211.CacheStatus
	// Number of redirects followed.
	Redirects int
}

func New(config Config) *Client {
	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}
	c := &Client{
		cache:          config.Cache,
		dialer:         config.Dialer,
		userAgent:      config.UserAgent,
		acceptLanguage: config.AcceptLanguage,
		maxRedirects:   config.MaxRedirects,
		defaultMaxAge:  config.DefaultMaxAge,
		rules:          config.Rules,
		process:        config.Process,
		log:            logger,
	}
	if c.cache == nil {
		c.cache = cache.New(cache.Config{Logger: &logger})
	}
	if c.dialer == nil {
		c.dialer = &transport.Dialer{}
	}
	if c.userAgent == "" {
		c.userAgent = http1.DefaultUserAgent
	}
	if c.maxRedirects <= 0 {
		c.maxRedirects = DefaultMaxRedirects
	}
	if c.defaultMaxAge <= 0 {
		c.defaultMaxAge = rfc9111.DefaultLifetime
	}
	return c
}

// Fetch returns the content of url. Redirects are followed, and fresh
// cached content is returned without contacting the origin.
func (c *Client) Fetch(ctx context.Context, url, accept string) (string, error) {
	res, err := c.Do(ctx, url, accept)
	if err != nil {
		return "", err
	}
	return res.Content, nil
}

// Do is like Fetch but also reports the status, content type and cache
// status of the final hop.
func (c *Client) Do(ctx context.Context, url, accept string) (*Response, error) {
	logger := c.log.With().Str("fetch", uuid.NewString()).Logger()
	ctx = logger.WithContext(ctx)

	current := url
	for redirects := 0; ; redirects++ {
		res, next, err := c.hop(ctx, current, accept)
		if err != nil {
			return nil, err
		}
		if next == "" {
			res.Redirects = redirects
			return res, nil
		}
		if redirects >= c.maxRedirects {
			return nil, fmt.Errorf("%w: gave up after %d redirects at %s", ErrTooManyRedirects, redirects, current)
		}
		logger.Debug().Str("from", current).Str("to", next).Int("status", res.StatusCode).Msg("Following redirect")
		current = next
	}
}

// hop performs a single request. When the origin redirects, the URL of the
// next hop is returned along with the response.
func (c *Client) hop(ctx context.Context, url, accept string) (*Response, string, error) {
	logger := zerolog.Ctx(ctx).With().Str("url", url).Logger()
	res := &Response{URL: url}

	stored, known := c.cache.Get(url)
	if known && !stored.IsExpired() {
		res.StatusCode = http1.StatusOK
		res.ContentType = stored.ContentType
		res.Content = stored.Content
		res.CacheStatus.Hit()
		res.CacheStatus.TimeToLive = int(stored.TimeToLive().Seconds())
		logger.Debug().Str("cacheStatus", res.CacheStatus.String()).Msg("Served from cache")
		return res, "", nil
	}

	target, err := http1.ParseTarget(url)
	if err != nil {
		return nil, "", err
	}
	req := &http1.Request{
		Target:         target,
		Accept:         accept,
		AcceptLanguage: c.acceptLanguage,
		Referer:        refererFor(target),
		UserAgent:      c.userAgent,
	}
	if known {
		res.CacheStatus.Forward(rfc9211.FwdReasonStale)
		if validator, ok := rfc9111.ValidatorFor(stored.ETag); ok {
			req.IfNoneMatch = validator
		}
	} else {
		res.CacheStatus.Forward(rfc9211.FwdReasonUriMiss)
	}

	head, body, err := c.roundTrip(ctx, req)
	if err != nil {
		return nil, "", err
	}
	c.rules.Apply(ctx, target, head.StatusCode, head.Header)
	res.StatusCode = head.StatusCode
	res.ContentType = head.Header.Get("Content-Type")
	res.CacheStatus.FwdStatus = head.StatusCode

	switch {
	case head.StatusCode == http1.StatusNotModified && known:
		res.ContentType = stored.ContentType
		res.Content = stored.Content
		c.freshen(url, stored, head, res)
	case isRedirect(head.StatusCode):
		location := head.Header.Get("Location")
		if location == "" {
			return nil, "", fmt.Errorf("%w: status %d from %s", ErrRedirectWithoutLocation, head.StatusCode, url)
		}
		return res, ResolveLocation(target, location), nil
	default:
		res.Content = string(body)
		if head.StatusCode == http1.StatusOK {
			if c.process != nil {
				res.Content = c.process(res.ContentType, res.Content)
			}
			c.store(url, head, res)
		}
	}
	logger.Debug().Int("status", res.StatusCode).Str("cacheStatus", res.CacheStatus.String()).Msg("Fetched")
	return res, "", nil
}

// roundTrip sends req on a new connection and reads the response. Redirect
// bodies are not read.
func (c *Client) roundTrip(ctx context.Context, req *http1.Request) (*http1.Head, []byte, error) {
	logger := zerolog.Ctx(ctx)
	conn, err := c.dialer.Dial(ctx, req.Target)
	if err != nil {
		return nil, nil, err
	}
	defer conn.Close()

	if _, err := req.WriteTo(conn); err != nil {
		return nil, nil, transport.ClassifyIO(fmt.Errorf("write request to %s: %w", req.Target.Addr(), err))
	}
	logger.Trace().Str("request", req.Target.String()).Strs("headers", req.Header().Names()).Msg("Sent request")

	br := bufio.NewReader(conn)
	head, err := http1.ReadHead(br)
	if err != nil {
		return nil, nil, transport.ClassifyIO(fmt.Errorf("read response from %s: %w", req.Target.Addr(), err))
	}
	logger.Trace().Int("status", head.StatusCode).Str("framing", head.Framing.String()).Msg("Read response head")
	if isRedirect(head.StatusCode) {
		return head, nil, nil
	}
	body, err := http1.ReadBody(br, head.Framing)
	if err != nil {
		return nil, nil, transport.ClassifyIO(fmt.Errorf("read body from %s: %w", req.Target.Addr(), err))
	}
	logger.Trace().Int("bytes", len(body)).Msg("Read response body")
	return head, body, nil
}

func (c *Client) store(url string, head *http1.Head, res *Response) {
	if !rfc9111.MayStore(head.StatusCode, head.Header) {
		res.CacheStatus.Detail = "no-store"
		return
	}
	lifetime := rfc9111.RemainingLifetime(head.Header, c.defaultMaxAge)
	c.cache.Put(url, res.Content, res.ContentType, head.Header.Get("ETag"), lifetime)
	res.CacheStatus.Stored = true
	res.CacheStatus.TimeToLive = int(lifetime.Seconds())
}

// freshen replaces a validated entry with a new one carrying the lifetime
// announced by the 304 response.
func (c *Client) freshen(url string, stored cache.CacheEntry, head *http1.Head, res *Response) {
	if !rfc9111.MayFreshen(stored.ETag, head.Header) {
		res.CacheStatus.Detail = "validator mismatch"
		return
	}
	etag := stored.ETag
	if received := head.Header.Get("ETag"); received != "" {
		etag = received
	}
	lifetime := rfc9111.RemainingLifetime(head.Header, c.defaultMaxAge)
	c.cache.Put(url, stored.Content, stored.ContentType, etag, lifetime)
	res.CacheStatus.Stored = true
	res.CacheStatus.TimeToLive = int(lifetime.Seconds())
}

var searchEngineHosts = map[string]bool{
	"bing.com":       true,
	"www.bing.com":   true,
	"google.com":     true,
	"www.google.com": true,
	"duckduckgo.com": true,
}

// refererFor returns the engine's home page as Referer for search engine
// hosts, which serve degraded pages without one.
func refererFor(target http1.Target) string {
	if searchEngineHosts[strings.ToLower(target.Host)] {
		return target.Origin() + "/"
	}
	return ""
}
