package pageweld

import "testing"

func TestParseCacheControl(t *testing.T) {
	cc := ParseCacheControl("no-cache, max-age=60")

	if _, ok := cc.Get("no-cache"); !ok {
		t.Fatal("no-cache directive not found")
	}
	if val, ok := cc.Get("max-age"); !ok || val != "60" {
		t.Fatalf("max-age is %q (ok=%v)", val, ok)
	}
	if _, ok := cc.Get("no-store"); ok {
		t.Fatal("no-store directive should not be present")
	}
}

func TestParseCacheControlCaseInsensitive(t *testing.T) {
	cc := ParseCacheControl("No-Cache")

	if _, ok := cc.Get("no-cache"); !ok {
		t.Fatal("no-cache directive not found")
	}
}
