package pageweld

import (
	"net/http"
	"sort"
	"strings"

	"github.com/pageweld/pageweld/pkg/freshness"
)

// cacheKey returns the full composite cache key for a request: the request
// URI followed by one line per request header that any contributor named in
// its Vary response header. Folding the negotiated headers into the key
// keeps one client's variant from ever being served to another. Names are
// lowercased and sorted so equal requests always produce equal keys.
// The second return is false when a contributor declared "Vary: *", which
// makes the composite uncacheable.
func cacheKey(r *http.Request, descriptors []freshness.Descriptor) (string, bool) {
	names := make(map[string]struct{})
	for i := range descriptors {
		for _, name := range descriptors[i].Vary {
			if name == "*" {
				return "", false
			}
			names[strings.ToLower(name)] = struct{}{}
		}
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	key := r.URL.RequestURI()
	for _, name := range sorted {
		if values := r.Header.Values(name); len(values) > 0 {
			key += "\n" + name + ": " + strings.Join(values, ", ")
		}
	}
	return key, true
}
