package pageweld

import "strings"

// CacheControl holds the parsed directives of a Cache-Control header.
type CacheControl struct {
	m map[string]string
}

func (c CacheControl) Get(directive string) (string, bool) {
	val, ok := c.m[directive]
	return val, ok
}

// ParseCacheControl parses a Cache-Control header value. A request with a
// no-cache directive bypasses the composite cache.
func ParseCacheControl(header string) CacheControl {
	m := make(map[string]string)
	for _, directive := range strings.Split(header, ",") {
		parts := strings.SplitN(strings.TrimSpace(directive), "=", 2)
		var val string
		if len(parts) > 1 {
			val = parts[1]
		}
		m[strings.ToLower(parts[0])] = val
	}
	return CacheControl{m}
}
