package providers

import (
	"strconv"
	"strings"
)

// Keys understood in a provider's free-form config block.
const (
	ConfigUserAgentKey      = "user_agent"
	ConfigAcceptKey         = "accept"
	ConfigAcceptLanguageKey = "accept_language"
	ConfigCacheControlKey   = "cache_control"
	ConfigMaxSitemapsKey    = "max_sitemaps"
)

var headerKeys = []struct{ key, header string }{
	{ConfigUserAgentKey, "User-Agent"},
	{ConfigAcceptKey, "Accept"},
	{ConfigAcceptLanguageKey, "Accept-Language"},
	{ConfigCacheControlKey, "Cache-Control"},
}

// ConfigString returns the trimmed string at key, or fallback when absent or blank.
func ConfigString(cfg Provider, key, fallback string) string {
	if s, ok := cfg.Config[key].(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return fallback
}

// ConfigInt returns the positive integer at key, or fallback. YAML yields
// ints, JSON yields float64, and env-style strings are parsed.
func ConfigInt(cfg Provider, key string, fallback int) int {
	var n int
	switch v := cfg.Config[key].(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		n = int(v)
	case string:
		n, _ = strconv.Atoi(strings.TrimSpace(v))
	}
	if n <= 0 {
		return fallback
	}
	return n
}

// Headers builds request headers from the provider config, skipping empty values.
func Headers(cfg Provider) map[string]string {
	headers := make(map[string]string, len(headerKeys))
	for _, hk := range headerKeys {
		if v := ConfigString(cfg, hk.key, ""); v != "" {
			headers[hk.header] = v
		}
	}
	return headers
}
