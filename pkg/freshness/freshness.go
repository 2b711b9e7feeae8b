// Package freshness computes the combined conditional-caching verdict for a
// response composed from several independently cacheable resources. A
// composite is only ever reported unchanged when every contributing resource
// independently confirmed it has nothing newer than the client's cached copy,
// and a fresh composite carries the newest contributor's modification time.
package freshness

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pageweld/pageweld/pkg/httpdate"
)

// Status describes the outcome of fetching a single contributing resource.
type Status int

const (
	// StatusOK means the resource was fetched in full.
	StatusOK Status = iota
	// StatusNotModified means the resource confirmed the client's cached
	// copy is still current (no body was produced).
	StatusNotModified
	// StatusError means the fetch failed with a non-2xx, non-304 status.
	StatusError
)

// Descriptor is the normalized result of one internal resource fetch.
// It is immutable once returned by the fetcher.
type Descriptor struct {
	Path   string
	Status Status
	// StatusCode is the raw HTTP status code of the fetch.
	StatusCode int
	// LastModified is the resource's validator, if the upstream exposed
	// one. The zero time means the modification time is unknown.
	LastModified time.Time
	ETag         string
	ContentType  string
	Body         []byte
	// Vary lists the request header names the upstream declared in its
	// Vary response header. The composite varies by the union of all
	// contributors' Vary fields; "*" marks the composite uncacheable.
	Vary []string
}

// Conditional holds the client's conditional request headers, parsed once
// per inbound request and forwarded read-only to every resource fetch.
type Conditional struct {
	IfModifiedSince time.Time
	IfNoneMatch     string
}

// ParseConditional derives the conditional context from inbound request
// headers. An unparseable If-Modified-Since value is ignored, as required
// for HTTP-date recipients.
func ParseConditional(h http.Header) Conditional {
	var c Conditional
	if ims := h.Get("If-Modified-Since"); ims != "" {
		if date, err := httpdate.Parse(ims); err == nil {
			c.IfModifiedSince = date
		}
	}
	c.IfNoneMatch = h.Get("If-None-Match")
	return c
}

// IsZero reports whether the client sent no conditional headers at all.
func (c Conditional) IsZero() bool {
	return c.IfModifiedSince.IsZero() && c.IfNoneMatch == ""
}

// Apply overrides the conditional headers on an outgoing internal fetch so
// that each upstream can independently assert its own freshness. Headers
// not present in the context are removed rather than left over from the
// inbound request.
func (c Conditional) Apply(h http.Header) {
	if c.IfModifiedSince.IsZero() {
		h.Del("If-Modified-Since")
	} else {
		h.Set("If-Modified-Since", httpdate.Format(c.IfModifiedSince))
	}
	if c.IfNoneMatch == "" {
		h.Del("If-None-Match")
	} else {
		h.Set("If-None-Match", c.IfNoneMatch)
	}
}

// Verdict is the combined freshness of a composite response.
type Verdict struct {
	// Unchanged is true when every contributor reported not modified.
	Unchanged bool
	// LastModified is the effective modification time of the composite:
	// the newest time among all contributors, set only when every
	// contributor has a known one. The zero time means the freshness of
	// the composite is undefined: it must always be served fresh, with
	// no validator emitted. On unchanged verdicts the time is repeated
	// as the 304's validator.
	LastModified time.Time
}

// UpstreamError is returned by Evaluate when any contributor failed to
// fetch. Decoration must be aborted; a partial composite is never served.
type UpstreamError struct {
	Path       string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream fetch of %s failed with status %d", e.Path, e.StatusCode)
}

// Evaluate combines the freshness signals of all contributing resources,
// content first, decorators in chain order.
//
// If all contributors reported not modified, the composite is unchanged:
// each upstream already confirmed it has nothing newer than the client's
// copy, so individual timestamps cannot flip the outcome. The effective
// modification time is the maximum over all contributors - but only if
// every contributor has a known one. A single contributor with unknown
// modification time makes the composite's freshness undefined.
func Evaluate(descriptors []Descriptor) (Verdict, error) {
	if len(descriptors) == 0 {
		return Verdict{}, nil
	}
	verdict := Verdict{Unchanged: true}
	for i := range descriptors {
		if descriptors[i].Status == StatusError {
			return Verdict{}, &UpstreamError{
				Path:       descriptors[i].Path,
				StatusCode: descriptors[i].StatusCode,
			}
		}
		if descriptors[i].Status != StatusNotModified {
			verdict.Unchanged = false
		}
	}
	for i := range descriptors {
		lm := descriptors[i].LastModified
		if lm.IsZero() {
			verdict.LastModified = time.Time{}
			break
		}
		if lm.After(verdict.LastModified) {
			verdict.LastModified = lm
		}
	}
	return verdict, nil
}
