// Package pageweld decorates HTTP responses while preserving conditional
// caching semantics across every contributing resource. Requests for content
// are matched against a decorator mapping; the content and its decorator
// chain are fetched through the wrapped handler with the client's own
// conditional headers, their freshness signals are combined into a single
// verdict, and the composite is served either as 304 Not Modified or as a
// freshly merged page carrying the newest contributor's Last-Modified value.
package pageweld

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pageweld/pageweld/cache"
	"github.com/pageweld/pageweld/pkg/decorate"
	"github.com/pageweld/pageweld/pkg/extract"
	"github.com/pageweld/pageweld/pkg/freshness"
	"github.com/pageweld/pageweld/pkg/httpdate"
	"github.com/pageweld/pageweld/pkg/pathmapper"
)

const defaultContentType = "text/html; charset=utf-8"

type Config struct {
	// Mapper resolves content paths to decorator chains.
	Mapper *pathmapper.Mapper
	// Cache stores composed responses. Decoration works without one; a
	// nil cache just means every fresh composite is merged again.
	Cache cache.Provider
	// Extractor breaks content bodies into named properties.
	// extract.HTMLExtractor is used if nil.
	Extractor extract.Extractor
	// Logger to use. A console logger is used if nil.
	Logger *zerolog.Logger
}

// Weld is the decoration middleware. Create it once with New and wrap the
// host handler with Middleware; a Weld holds no per-request state and is
// safe for concurrent use.
type Weld struct {
	mapper *pathmapper.Mapper
	cache  cache.Provider
	engine *decorate.Engine
	log    zerolog.Logger
	tracer trace.Tracer
}

func New(config Config) *Weld {
	// use console logger if not specified in config
	var logger zerolog.Logger
	if config.Logger == nil {
		logger = zerolog.New(zerolog.NewConsoleWriter())
	} else {
		logger = *config.Logger
	}

	mapper := config.Mapper
	if mapper == nil {
		mapper = pathmapper.New()
	}
	extractor := config.Extractor
	if extractor == nil {
		extractor = extract.HTMLExtractor{}
	}

	return &Weld{
		mapper: mapper,
		cache:  config.Cache,
		engine: decorate.NewEngine(extractor),
		log:    logger,
		tracer: otel.Tracer("github.com/pageweld/pageweld"),
	}
}

// Middleware wraps the host handler with response decoration. The wrapped
// handler doubles as the dispatch target for all internal resource fetches.
func (d *Weld) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.serve(w, r, next)
	})
}

func (d *Weld) serve(w http.ResponseWriter, r *http.Request, next http.Handler) {
	// only GET and HEAD responses are decorated
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		next.ServeHTTP(w, r)
		return
	}
	chain := d.mapper.Resolve(r.URL.Path)
	if len(chain) == 0 {
		// transparent passthrough for unmapped paths
		next.ServeHTTP(w, r)
		return
	}

	ctx, span := d.tracer.Start(r.Context(), "pageweld.decorate", trace.WithAttributes(
		attribute.String("content.path", r.URL.Path),
		attribute.Int("decorator.count", len(chain)),
	))
	defer span.End()

	log := d.log.With().
		Str("method", r.Method).
		Str("url", r.URL.String()).
		Logger()

	conditional := freshness.ParseConditional(r.Header)
	paths := append([]string{r.URL.Path}, chain...)
	descriptors := d.fetchAll(ctx, next, r, paths, conditional)
	if ctx.Err() != nil {
		log.Warn().Err(ctx.Err()).Msg("Request context done during fetch")
		http.Error(w, "request aborted", http.StatusInternalServerError)
		return
	}

	verdict, err := freshness.Evaluate(descriptors)
	if err != nil {
		var upstream *freshness.UpstreamError
		if errors.As(err, &upstream) {
			log.Error().
				Str("path", upstream.Path).
				Int("upstreamStatus", upstream.StatusCode).
				Msg("Upstream fetch failed, aborting decoration")
		} else {
			log.Error().Err(err).Msg("Could not evaluate composite freshness")
		}
		span.RecordError(err)
		http.Error(w, "upstream fetch failed", http.StatusBadGateway)
		return
	}
	span.SetAttributes(attribute.Bool("composite.unchanged", verdict.Unchanged))

	if verdict.Unchanged {
		// every contributor confirmed freshness, no body and no
		// content-length; the validator is repeated when known
		if !verdict.LastModified.IsZero() {
			w.Header().Set("Last-Modified", httpdate.Format(verdict.LastModified))
		}
		w.WriteHeader(http.StatusNotModified)
		log.Debug().Int("status", http.StatusNotModified).Msg("Composite not modified")
		return
	}

	body, contentType, hit, ok := d.compose(ctx, w, r, next, descriptors, verdict, log)
	if !ok {
		return
	}
	d.emitFresh(w, r, verdict, contentType, body)
	log.Debug().
		Int("status", http.StatusOK).
		Bool("hit", hit).
		Str("lastModified", w.Header().Get("Last-Modified")).
		Msg("Served fresh composite")
}

// compose produces the merged body for a fresh composite, either from the
// composite cache or by refetching and running the decoration chain. The
// hit return reports whether the body came from the cache. compose writes
// the error response itself and returns ok=false when the pipeline has to
// abort.
func (d *Weld) compose(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	next http.Handler,
	descriptors []freshness.Descriptor,
	verdict freshness.Verdict,
	log zerolog.Logger,
) (body []byte, contentType string, hit, ok bool) {
	cacheable := d.cache != nil && !verdict.LastModified.IsZero()
	requestCC := ParseCacheControl(r.Header.Get("Cache-Control"))
	if _, noCache := requestCC.Get("no-cache"); noCache {
		cacheable = false
	}
	key, keyable := cacheKey(r, descriptors)
	if !keyable {
		cacheable = false
	}

	if cacheable {
		if entry, found, err := d.cache.Get(key); err != nil {
			log.Error().Err(err).Msg("Could not read composite cache")
		} else if found && entry.LastModified.Equal(verdict.LastModified) {
			log.Trace().Msg("Composite served from cache")
			return entry.Body, entry.ContentType, true, true
		}
	}

	// contributors that answered 304 have no body; fetch them again
	// without conditionals
	for i := range descriptors {
		if descriptors[i].Status != freshness.StatusNotModified {
			continue
		}
		descriptors[i] = d.fetch(ctx, next, r, descriptors[i].Path, freshness.Conditional{})
		if descriptors[i].Status != freshness.StatusOK {
			log.Error().
				Str("path", descriptors[i].Path).
				Int("upstreamStatus", descriptors[i].StatusCode).
				Msg("Unconditional refetch failed, aborting decoration")
			http.Error(w, "upstream fetch failed", http.StatusBadGateway)
			return nil, "", false, false
		}
	}

	templates := make([]string, 0, len(descriptors)-1)
	contentType = defaultContentType
	for _, desc := range descriptors[1:] {
		templates = append(templates, string(desc.Body))
		if desc.ContentType != "" {
			// the outermost decorator declares the composite's type
			contentType = desc.ContentType
		}
	}

	_, mergeSpan := d.tracer.Start(ctx, "pageweld.merge")
	composed, err := d.engine.Decorate(string(descriptors[0].Body), templates)
	mergeSpan.End()
	if err != nil {
		log.Error().Err(err).Msg("Could not merge content into decorators")
		http.Error(w, "decoration failed", http.StatusInternalServerError)
		return nil, "", false, false
	}

	if cacheable {
		// refetched contributors may declare vary dimensions their 304
		// responses omitted
		if key, keyable = cacheKey(r, descriptors); !keyable {
			cacheable = false
		}
	}
	if cacheable {
		entry := cache.Entry{
			Key:          key,
			LastModified: verdict.LastModified,
			ContentType:  contentType,
			Body:         []byte(composed),
		}
		if err := d.cache.Put(entry); err != nil {
			log.Error().Err(err).Msg("Could not store composite in cache")
		}
	}
	return []byte(composed), contentType, false, true
}

func (d *Weld) emitFresh(w http.ResponseWriter, r *http.Request, verdict freshness.Verdict, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	if !verdict.LastModified.IsZero() {
		w.Header().Set("Last-Modified", httpdate.Format(verdict.LastModified))
	}
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		if _, err := w.Write(body); err != nil {
			d.log.Error().Err(err).Msg("Could not write response body to client")
		}
	}
}
