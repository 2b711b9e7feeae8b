// Package extract pulls named properties out of a content body for use as
// decorator substitution values.
package extract

import (
	"strings"
)

// Properties maps property names to their extracted string values.
type Properties map[string]string

// Extractor produces named properties from a content body. Implementations
// decide what the content format exposes; a property that the format does
// not expose is simply absent from the result.
type Extractor interface {
	ExtractProperties(body string) (Properties, error)
}

// HTMLExtractor extracts the standard properties of an HTML document:
//
//	body      inner content of the <body> element (the whole document
//	          when there is no <body> element)
//	title     inner text of the <title> element
//	head      inner content of the <head> element
//	meta.X    content attribute of <meta name="X" content="..."> elements
//
// Tag names and attribute names are matched case-insensitively. The
// extractor does not validate the markup; it only locates the regions it
// needs, so malformed documents degrade to fewer properties rather than
// errors.
type HTMLExtractor struct{}

func (HTMLExtractor) ExtractProperties(body string) (Properties, error) {
	props := Properties{"body": body}
	if inner, ok := innerContent(body, "body"); ok {
		props["body"] = inner
	}
	if inner, ok := innerContent(body, "title"); ok {
		props["title"] = strings.TrimSpace(inner)
	}
	if inner, ok := innerContent(body, "head"); ok {
		props["head"] = inner
	}
	for name, content := range metaTags(body) {
		props["meta."+strings.ToLower(name)] = content
	}
	return props, nil
}

// innerContent returns the content between the opening and closing tags of
// the first occurrence of the named element.
func innerContent(doc, tag string) (string, bool) {
	lower := strings.ToLower(doc)
	open := indexTag(lower, "<"+tag)
	if open < 0 {
		return "", false
	}
	// the opening tag may carry attributes
	start := strings.IndexByte(lower[open:], '>')
	if start < 0 {
		return "", false
	}
	start += open + 1
	end := indexTag(lower[start:], "</"+tag)
	if end < 0 {
		return "", false
	}
	return doc[start : start+end], true
}

// indexTag finds the named tag in the (lowercased) document, making sure a
// shorter tag name does not match a longer one (e.g. "head" vs "header").
func indexTag(lower, prefix string) int {
	offset := 0
	for {
		idx := strings.Index(lower[offset:], prefix)
		if idx < 0 {
			return -1
		}
		idx += offset
		rest := lower[idx+len(prefix):]
		if rest == "" {
			return -1
		}
		switch rest[0] {
		case '>', ' ', '\t', '\n', '\r', '/':
			return idx
		}
		offset = idx + len(prefix)
	}
}

// metaTags returns the name/content pairs of all <meta> tags in the
// document head.
func metaTags(doc string) map[string]string {
	metas := make(map[string]string)
	lower := strings.ToLower(doc)
	offset := 0
	for {
		open := strings.Index(lower[offset:], "<meta")
		if open < 0 {
			return metas
		}
		open += offset
		end := strings.IndexByte(lower[open:], '>')
		if end < 0 {
			return metas
		}
		tag := doc[open : open+end]
		if name, ok := attribute(tag, "name"); ok {
			if content, ok := attribute(tag, "content"); ok {
				metas[name] = content
			}
		}
		offset = open + end + 1
	}
}

// attribute returns the value of the named attribute within a single tag.
// Values must be quoted with single or double quotes.
func attribute(tag, name string) (string, bool) {
	lower := strings.ToLower(tag)
	idx := strings.Index(lower, name+"=")
	if idx < 0 {
		return "", false
	}
	rest := tag[idx+len(name)+1:]
	if len(rest) < 2 {
		return "", false
	}
	quote := rest[0]
	if quote != '"' && quote != '\'' {
		return "", false
	}
	closing := strings.IndexByte(rest[1:], quote)
	if closing < 0 {
		return "", false
	}
	return rest[1 : 1+closing], true
}
