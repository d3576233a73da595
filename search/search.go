// Package search queries a web search engine and extracts result links
// from its HTML.
package search

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultURL        = "https://www.bing.com/search?q="
	DefaultMaxResults = 10
)

var (
	ErrNoResults  = errors.New("search: no results found, try a different search term")
	ErrEmptyQuery = errors.New("search: empty query")
)

// DefaultExcludeHosts are the engine's own domains, skipped when falling
// back to bare URLs.
var DefaultExcludeHosts = []string{"bing.com", "microsoft.com"}

// Result patterns, tried in order until one yields results.
var resultPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)<li class="b_algo"[^>]*>.*?<h2[^>]*><a[^>]* href="([^"]+)"[^>]*>(.*?)</a></h2>`),
	regexp.MustCompile(`(?s)<h2[^>]*><a[^>]* href="([^"]+)"[^>]*>(.*?)</a></h2>`),
	regexp.MustCompile(`(?s)<a[^>]* href="([^"]+)"[^>]*>(.*?)</a>`),
}

var (
	bareURLPattern = regexp.MustCompile(`https?://[^\s"'<>]+`)
	tagPattern     = regexp.MustCompile(`<[^>]+>`)
)

// Fetcher fetches the content of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url, accept string) (string, error)
}

type Result struct {
	URL string
	// Title is empty for results found by the bare URL fallback.
	Title string
}

func (r Result) String() string {
	if r.Title == "" {
		return r.URL
	}
	return r.URL + " - " + r.Title
}

type Config struct {
	Fetcher Fetcher
	// URL the escaped query is appended to. Defaults to DefaultURL.
	URL          string
	MaxResults   int
	ExcludeHosts []string
	// Logger to use. The global zerolog logger is used if nil.
	Logger *zerolog.Logger
}

type Service struct {
	fetcher      Fetcher
	url          string
	maxResults   int
	excludeHosts []string
	log          zerolog.Logger
}

func New(config Config) *Service {
	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}
	s := &Service{
		fetcher:      config.Fetcher,
		url:          config.URL,
		maxResults:   config.MaxResults,
		excludeHosts: config.ExcludeHosts,
		log:          logger.With().Str("component", "search").Logger(),
	}
	if s.url == "" {
		s.url = DefaultURL
	}
	if s.maxResults <= 0 {
		s.maxResults = DefaultMaxResults
	}
	if s.excludeHosts == nil {
		s.excludeHosts = DefaultExcludeHosts
	}
	return s
}

// Search fetches the result page for query and returns its top results.
func (s *Service) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	searchURL := s.url + url.QueryEscape(query)
	s.log.Debug().Str("query", query).Str("url", searchURL).Msg("Searching")

	page, err := s.fetcher.Fetch(ctx, searchURL, "text/html")
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	results := Extract(page, s.maxResults, s.excludeHosts)
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	s.log.Debug().Int("results", len(results)).Msg("Extracted results")
	return results, nil
}

// Extract finds up to max results in a result page. Result links are tried
// first; if none are found, bare URLs outside excludeHosts are returned.
func Extract(page string, max int, excludeHosts []string) []Result {
	for _, pattern := range resultPatterns {
		if results := extractLinks(page, pattern, max); len(results) > 0 {
			return results
		}
	}
	return extractBareURLs(page, max, excludeHosts)
}

func extractLinks(page string, pattern *regexp.Regexp, max int) []Result {
	var results []Result
	seen := make(map[string]bool)
	for _, m := range pattern.FindAllStringSubmatch(page, -1) {
		if len(results) >= max {
			break
		}
		href := html.UnescapeString(m[1])
		title := cleanTitle(m[2])
		if !isWebURL(href) || title == "" || title == "Web" || seen[href] {
			continue
		}
		seen[href] = true
		results = append(results, Result{URL: href, Title: title})
	}
	return results
}

func extractBareURLs(page string, max int, excludeHosts []string) []Result {
	var results []Result
	seen := make(map[string]bool)
	for _, u := range bareURLPattern.FindAllString(page, -1) {
		if len(results) >= max {
			break
		}
		u = html.UnescapeString(u)
		if seen[u] || excluded(u, excludeHosts) {
			continue
		}
		seen[u] = true
		results = append(results, Result{URL: u})
	}
	return results
}

func cleanTitle(title string) string {
	title = html.UnescapeString(tagPattern.ReplaceAllString(title, ""))
	return strings.Join(strings.Fields(title), " ")
}

func isWebURL(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

func excluded(u string, hosts []string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return true
	}
	host := strings.ToLower(parsed.Hostname())
	for _, h := range hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}
