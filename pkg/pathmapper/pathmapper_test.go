package pathmapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	m := New()
	m.Add("/content", "/decorator")
	m.Add("/docs/*", "/layouts/docs")
	m.Add("/docs/api/*", "/layouts/api")
	m.Add("*.html", "/layouts/page")
	m.Add("/*", "/layouts/default")
	m.Add("/nested", "/layouts/inner", "/layouts/outer")

	testCases := []struct {
		name  string
		path  string
		chain []string
	}{
		{"exact", "/content", []string{"/decorator"}},
		{"prefix", "/docs/intro", []string{"/layouts/docs"}},
		{"longest_prefix_wins", "/docs/api/users", []string{"/layouts/api"}},
		{"suffix", "/about.html", []string{"/layouts/page"}},
		{"exact_beats_prefix", "/content", []string{"/decorator"}},
		{"fallback", "/anything/else", []string{"/layouts/default"}},
		{"chain_order_preserved", "/nested", []string{"/layouts/inner", "/layouts/outer"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.chain, m.Resolve(tc.path))
		})
	}
}

func TestResolveNoMatch(t *testing.T) {
	m := New()
	m.Add("/content", "/decorator")

	assert.Nil(t, m.Resolve("/other"))
}

func TestPrefixBeatsSuffix(t *testing.T) {
	m := New()
	m.Add("/docs/*", "/layouts/docs")
	m.Add("*.html", "/layouts/page")

	assert.Equal(t, []string{"/layouts/docs"}, m.Resolve("/docs/intro.html"))
}
