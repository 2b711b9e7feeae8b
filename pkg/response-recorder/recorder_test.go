package recorder

import (
	"net/http"
	"testing"
)

func TestRecordsStatusHeadersAndBody(t *testing.T) {
	rec := New()
	rec.Header().Set("Content-Type", "text/html")
	rec.WriteHeader(http.StatusNotModified)

	if rec.StatusCode() != http.StatusNotModified {
		t.Fatalf("Status code is %d", rec.StatusCode())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html" {
		t.Fatalf("Content type is %s", ct)
	}
}

func TestImplicitOK(t *testing.T) {
	rec := New()
	if _, err := rec.Write([]byte("hello")); err != nil {
		t.Fatalf("Error writing: %+v", err)
	}

	if rec.StatusCode() != http.StatusOK {
		t.Fatalf("Status code is %d", rec.StatusCode())
	}
	if string(rec.Body()) != "hello" {
		t.Fatalf("Body is %s", rec.Body())
	}
}

func TestFirstWriteHeaderWins(t *testing.T) {
	rec := New()
	rec.WriteHeader(http.StatusNotFound)
	rec.WriteHeader(http.StatusOK)

	if rec.StatusCode() != http.StatusNotFound {
		t.Fatalf("Status code is %d", rec.StatusCode())
	}
}
