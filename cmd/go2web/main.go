package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	go2web "github.com/always-cache/go2web"
	"github.com/always-cache/go2web/cache"
	"github.com/always-cache/go2web/pkg/render"
	"github.com/always-cache/go2web/pkg/transport"
	"github.com/always-cache/go2web/search"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultAccept = "text/html,application/json;q=0.9,*/*;q=0.8"

var (
	// CLI flags
	urlFlag            string
	searchFlag         bool
	configFilenameFlag string
	providerFlag       string
	acceptFlag         string
	rawFlag            bool
	sweepFlag          bool
	noColorFlag        bool
	verbosityDebugFlag bool
	verbosityTraceFlag bool
	logFilenameFlag    string

	// this is set by goreleaser
	version string
)

func init() {
	flag.StringVar(&urlFlag, "u", "", "Make an HTTP request to `URL` and print the response")
	flag.BoolVar(&searchFlag, "s", false, "Search the remaining arguments and print the top results")
	flag.StringVar(&configFilenameFlag, "config", "", "Path to config file")
	flag.StringVar(&providerFlag, "provider", "", "Cache provider: file, sqlite or memory (overrides config)")
	flag.StringVar(&acceptFlag, "accept", defaultAccept, "Accept header to send")
	flag.BoolVar(&rawFlag, "raw", false, "Print bodies as received, without rendering")
	flag.BoolVar(&sweepFlag, "sweep", false, "Purge expired cache entries once before fetching (long-running programs use ResponseCache.RunSweeper)")
	flag.BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	flag.BoolVar(&verbosityDebugFlag, "v", false, "Verbosity: debug logging")
	flag.BoolVar(&verbosityTraceFlag, "vv", false, "Verbosity: trace logging")
	flag.StringVar(&logFilenameFlag, "log-file", "", "Log file to use (in addition to stderr)")

	if version == "" {
		version = "DEV"
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  go2web -u <URL>         # make an HTTP request to the specified URL and print the response")
	fmt.Fprintln(out, "  go2web -s <search-term> # search the term and print the top 10 results")
	fmt.Fprintln(out, "  go2web -h               # show this help")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	query := strings.Join(flag.Args(), " ")
	if urlFlag == "" && (!searchFlag || query == "") {
		flag.CommandLine.SetOutput(os.Stdout)
		usage()
		return
	}

	setupLogging()

	config, err := getConfig(configFilenameFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	if providerFlag != "" {
		config.Cache.Provider = providerFlag
	}

	responseCache, closeCache := openCache(config.Cache)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	if sweepFlag {
		log.Info().Int("purged", responseCache.Sweep()).Msg("Swept cache")
	}

	a := newApp(config, responseCache, os.Stdout)
	a.accept = acceptFlag
	a.raw = rawFlag
	a.renderer.Color = !noColorFlag && isTerminal(os.Stdout)

	if searchFlag {
		err = a.search(ctx, query)
	} else {
		err = a.fetch(ctx, urlFlag)
	}
	stop()
	closeCache()

	if err != nil {
		log.Error().Err(err).Msg("Request failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging logs to stderr, since stdout carries content, and also to
// the log file if specified.
func setupLogging() {
	logLevel := zerolog.WarnLevel
	if verbosityDebugFlag {
		logLevel = zerolog.DebugLevel
	}
	if verbosityTraceFlag {
		logLevel = zerolog.TraceLevel
	}

	logOutputs := make([]io.Writer, 0)
	logOutputs = append(logOutputs, zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColorFlag || !isTerminal(os.Stderr)})
	if logFilenameFlag != "" {
		if logFileOutput, err := os.OpenFile(logFilenameFlag, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644); err != nil {
			log.Fatal().Err(err).Msg("Cannot open log file")
		} else {
			logOutputs = append(logOutputs, logFileOutput)
		}
	}
	multiWriter := zerolog.MultiLevelWriter(logOutputs...)
	log.Logger = log.Level(logLevel).Output(multiWriter).
		With().Str("version", version).Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// openCache opens the configured durable provider. If it cannot be opened,
// responses are cached in memory only. The returned function releases the
// provider.
func openCache(config CacheConfig) (*cache.ResponseCache, func()) {
	durable, closeFn, err := openProvider(config)
	if err != nil {
		log.Warn().Err(err).Str("provider", config.Provider).Msg("Cannot open cache, using memory only")
		durable, closeFn = nil, func() {}
	}
	return cache.New(cache.Config{Durable: durable}), closeFn
}

func openProvider(config CacheConfig) (cache.CacheProvider, func(), error) {
	noop := func() {}
	switch config.Provider {
	case providerFile:
		fc, err := cache.NewFileCache(config.Dir)
		if err != nil {
			return nil, noop, err
		}
		return fc, noop, nil
	case providerSQLite:
		if err := os.MkdirAll(filepath.Dir(config.DB), 0755); err != nil {
			return nil, noop, err
		}
		sc, err := cache.NewSQLiteCache(config.DB)
		if err != nil {
			return nil, noop, err
		}
		return sc, func() {
			if err := sc.Close(); err != nil {
				log.Warn().Err(err).Msg("Cannot close cache db")
			}
		}, nil
	case providerMemory:
		return nil, noop, nil
	}
	return nil, noop, fmt.Errorf("unsupported cache provider: %s", config.Provider)
}

type app struct {
	client   *go2web.Client
	searcher *search.Service
	renderer render.Renderer
	accept   string
	raw      bool
	out      io.Writer
}

func newApp(config Config, responseCache *cache.ResponseCache, out io.Writer) *app {
	client := go2web.New(go2web.Config{
		Cache: responseCache,
		Dialer: &transport.Dialer{
			Timeout:     config.Client.Timeout,
			Fingerprint: config.Client.Fingerprint,
		},
		UserAgent:      config.Client.UserAgent,
		AcceptLanguage: config.Client.AcceptLanguage,
		MaxRedirects:   config.Client.MaxRedirects,
		DefaultMaxAge:  config.Cache.DefaultMaxAge,
		Rules:          config.Cache.Rules,
	})
	return &app{
		client: client,
		searcher: search.New(search.Config{
			Fetcher:    client,
			URL:        config.Search.URL,
			MaxResults: config.Search.MaxResults,
		}),
		accept: defaultAccept,
		out:    out,
	}
}

func (a *app) fetch(ctx context.Context, url string) error {
	res, err := a.client.Do(ctx, url, a.accept)
	if err != nil {
		return err
	}
	log.Debug().
		Str("url", res.URL).
		Int("status", res.StatusCode).
		Int("redirects", res.Redirects).
		Stringer("cacheStatus", res.CacheStatus).
		Msg("Fetched")
	if res.StatusCode >= 400 {
		log.Warn().Int("status", res.StatusCode).Str("url", res.URL).Msg("Origin returned an error status")
	}

	content := res.Content
	if !a.raw {
		content = a.renderer.Body(res.ContentType, content)
	}
	_, err = fmt.Fprintln(a.out, content)
	return err
}

func (a *app) search(ctx context.Context, query string) error {
	results, err := a.searcher.Search(ctx, query)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Top %d results for %q:\n\n", len(results), query)
	for i, result := range results {
		if _, err := fmt.Fprintf(a.out, "%d. %s\n", i+1, result); err != nil {
			return err
		}
	}
	return nil
}
