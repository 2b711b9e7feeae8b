package pageweld

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/pageweld/pageweld/pkg/freshness"
	"github.com/pageweld/pageweld/pkg/httpdate"
	recorder "github.com/pageweld/pageweld/pkg/response-recorder"
)

// fetchAll retrieves every contributing resource through the host dispatch.
// The fetches are independent of each other, so they run concurrently; order
// within the result matches the order of paths (content first, then the
// decorator chain).
func (d *Weld) fetchAll(
	ctx context.Context,
	next http.Handler,
	original *http.Request,
	paths []string,
	conditional freshness.Conditional,
) []freshness.Descriptor {
	descriptors := make([]freshness.Descriptor, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			descriptors[i] = d.fetch(ctx, next, original, path, conditional)
		}(i, path)
	}
	wg.Wait()
	return descriptors
}

// fetch performs exactly one internal dispatch for the given path. The
// original client headers are forwarded with the conditional headers
// overridden from the conditional context, so the upstream resource can
// independently decide whether to produce a body. Retries are the concern
// of the host transport, not this layer.
func (d *Weld) fetch(
	ctx context.Context,
	next http.Handler,
	original *http.Request,
	path string,
	conditional freshness.Conditional,
) freshness.Descriptor {
	req := original.Clone(ctx)
	req.Method = http.MethodGet
	req.URL.Path = path
	req.URL.RawPath = ""
	if path != original.URL.Path {
		// the query string belongs to the content resource only
		req.URL.RawQuery = ""
	}
	req.RequestURI = req.URL.RequestURI()
	req.Body = http.NoBody
	req.ContentLength = 0
	conditional.Apply(req.Header)

	rec := recorder.New()
	next.ServeHTTP(rec, req)

	descriptor := freshness.Descriptor{
		Path:        path,
		StatusCode:  rec.StatusCode(),
		ContentType: rec.Header().Get("Content-Type"),
		ETag:        rec.Header().Get("ETag"),
	}
	if lm := rec.Header().Get("Last-Modified"); lm != "" {
		if date, err := httpdate.Parse(lm); err == nil {
			descriptor.LastModified = date
		}
	}
	for _, value := range rec.Header().Values("Vary") {
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				descriptor.Vary = append(descriptor.Vary, name)
			}
		}
	}
	switch {
	case rec.StatusCode() == http.StatusNotModified:
		descriptor.Status = freshness.StatusNotModified
	case rec.StatusCode() >= 200 && rec.StatusCode() < 300:
		descriptor.Status = freshness.StatusOK
		descriptor.Body = rec.Body()
	default:
		descriptor.Status = freshness.StatusError
	}

	d.log.Trace().
		Str("path", path).
		Int("upstreamStatus", rec.StatusCode()).
		Bool("conditional", !conditional.IsZero()).
		Msg("Fetched resource")
	return descriptor
}
