// Package responsetransformer changes received response headers according
// to configured rules, before the response is considered for caching.
package responsetransformer

import (
	"context"
	"net/url"
	"strings"

	"github.com/always-cache/go2web/pkg/http1"
	"github.com/rs/zerolog"
)

type Rules []Rule

// Rule matches responses by target. Empty match fields match everything.
type Rule struct {
	Host   string            `yaml:"host"`
	Prefix string            `yaml:"prefix"`
	Path   string            `yaml:"path"`
	Query  map[string]string `yaml:"query"`
	// Cache-Control to use when the response has none.
	Default string `yaml:"default"`
	// Cache-Control to use regardless of the response.
	Override string            `yaml:"override"`
	Headers  map[string]string `yaml:"headers"`
}

// Header is a response header that rules can change.
type Header interface {
	Get(name string) string
	Set(name, value string)
}

// Apply applies the first rule matching target to the header of a 200
// response.
func (r Rules) Apply(ctx context.Context, target http1.Target, statusCode int, h Header) {
	// only apply rules for successes
	if statusCode != http1.StatusOK {
		return
	}
	if rule := r.find(ctx, target); rule != nil {
		applyRule(ctx, *rule, h)
	}
}

func applyRule(ctx context.Context, rule Rule, h Header) {
	log := zerolog.Ctx(ctx)
	if rule.Override != "" {
		log.Trace().Str("cacheControl", rule.Override).Msg("Overriding Cache-Control header")
		h.Set("Cache-Control", rule.Override)
	} else if rule.Default != "" && h.Get("Cache-Control") == "" {
		log.Trace().Str("cacheControl", rule.Default).Msg("Applying default Cache-Control header")
		h.Set("Cache-Control", rule.Default)
	}
	for name, value := range rule.Headers {
		log.Trace().Msgf("Setting header %s", name)
		h.Set(name, value)
	}
}

func (r Rules) find(ctx context.Context, target http1.Target) *Rule {
	log := zerolog.Ctx(ctx)
	qry, err := url.ParseQuery(target.Query)
	if err != nil {
		log.Trace().Err(err).Msg("Cannot parse query, matching rules without query")
	}
rulesLoop:
	for i, rule := range r {
		if rule.Host != "" && !strings.EqualFold(rule.Host, target.Host) {
			continue
		}
		if rule.Path != "" && rule.Path != target.Path {
			continue
		}
		if rule.Prefix != "" && !strings.HasPrefix(target.Path, rule.Prefix) {
			continue
		}
		for name, value := range rule.Query {
			if value == "" && !qry.Has(name) {
				continue rulesLoop
			} else if value != "" && qry.Get(name) != value {
				continue rulesLoop
			}
		}
		log.Trace().Int("rule", i).Msg("Found rule for response")
		return &r[i]
	}
	return nil
}
