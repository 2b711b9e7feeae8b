// Package decorate merges content properties into decorator templates.
//
// A decorator template is ordinary markup with named insertion markers of
// the form
//
//	<pw:write property='body'/>
//
// (single or double quotes, optional self-closing slash). Each marker is
// replaced with the matching content property; a marker referencing an
// undefined property resolves to the empty string, since missing optional
// regions are expected rather than an error.
package decorate

import (
	"fmt"
	"regexp"

	"github.com/pageweld/pageweld/pkg/extract"
)

var markerPattern = regexp.MustCompile(`<pw:write\s+property=(?:'([^']*)'|"([^"]*)")\s*/?>`)

// Engine composes content and decorator templates. It owns the property
// extractor used to break the content body into named regions.
type Engine struct {
	extractor extract.Extractor
}

func NewEngine(extractor extract.Extractor) *Engine {
	return &Engine{extractor: extractor}
}

// Apply substitutes every insertion marker in the template with its
// property value. Undefined properties substitute as empty strings.
func (e *Engine) Apply(template string, props extract.Properties) string {
	return markerPattern.ReplaceAllStringFunc(template, func(marker string) string {
		groups := markerPattern.FindStringSubmatch(marker)
		name := groups[1]
		if name == "" {
			name = groups[2]
		}
		return props[name]
	})
}

// Decorate runs the full decoration chain over a content body. Properties
// are extracted once from the original content; the output of each decorator
// becomes the "body" property fed to the next one, while the remaining
// properties (title, head, ...) persist across the chain. With an empty
// chain the content is returned as is.
func (e *Engine) Decorate(content string, templates []string) (string, error) {
	props, err := e.extractor.ExtractProperties(content)
	if err != nil {
		return "", fmt.Errorf("extracting content properties: %w", err)
	}
	composed := content
	for _, template := range templates {
		composed = e.Apply(template, props)
		props["body"] = composed
	}
	return composed, nil
}
