package pageweld

import (
	"net/http/httptest"
	"testing"

	"github.com/pageweld/pageweld/pkg/freshness"
)

func TestCacheKeyWithoutVaryIsRequestURI(t *testing.T) {
	req := httptest.NewRequest("GET", "/content?page=2", nil)
	descriptors := []freshness.Descriptor{{Path: "/content"}, {Path: "/decorator"}}

	key, ok := cacheKey(req, descriptors)
	if !ok {
		t.Fatal("Expected a cacheable key")
	}
	if key != "/content?page=2" {
		t.Fatalf("Key is %q", key)
	}
}

func TestCacheKeyFoldsVaryHeaders(t *testing.T) {
	req := httptest.NewRequest("GET", "/content", nil)
	req.Header.Set("Accept-Language", "fr")
	req.Header.Set("X-Theme", "dark")
	descriptors := []freshness.Descriptor{
		{Path: "/content", Vary: []string{"X-Theme", "Accept-Language"}},
		{Path: "/decorator", Vary: []string{"Accept-Language"}},
	}

	key, ok := cacheKey(req, descriptors)
	if !ok {
		t.Fatal("Expected a cacheable key")
	}
	if key != "/content\naccept-language: fr\nx-theme: dark" {
		t.Fatalf("Key is %q", key)
	}
}

func TestCacheKeySkipsAbsentHeaders(t *testing.T) {
	req := httptest.NewRequest("GET", "/content", nil)
	descriptors := []freshness.Descriptor{{Path: "/content", Vary: []string{"Accept-Language"}}}

	key, _ := cacheKey(req, descriptors)
	if key != "/content" {
		t.Fatalf("Key is %q", key)
	}
}

func TestCacheKeyVaryStarIsUncacheable(t *testing.T) {
	req := httptest.NewRequest("GET", "/content", nil)
	descriptors := []freshness.Descriptor{
		{Path: "/content", Vary: []string{"*"}},
		{Path: "/decorator"},
	}

	if _, ok := cacheKey(req, descriptors); ok {
		t.Fatal("Expected Vary * to make the composite uncacheable")
	}
}
