package render

import (
	"net/http"
	"sort"
	"strings"
)

// ContentTypeHTML is the fixed content type of escaped body blocks.
const ContentTypeHTML = "text/html"

// ContentTypeJSON is the fixed content type of JSON body blocks.
const ContentTypeJSON = "application/json"

// Header is one line of a rendered header block.
type Header struct {
	Name  string
	Value string
}

// H returns a Header with a trimmed name.
func H(name, v string) Header {
	return Header{Name: strings.TrimSpace(name), Value: v}
}

// HeadersFromMap converts a map into headers sorted by canonical name so the
// output is deterministic.
func HeadersFromMap(in map[string]string) []Header {
	if len(in) == 0 {
		return nil
	}
	out := make([]Header, 0, len(in))
	for name, v := range in {
		out = append(out, H(name, v))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return http.CanonicalHeaderKey(out[i].Name) < http.CanonicalHeaderKey(out[j].Name)
	})
	return out
}

// MergeHeaders returns extra followed by fixed. Names are compared in
// canonical form: a later header replaces an earlier one with the same name
// but keeps its position. Empty names are dropped.
func MergeHeaders(extra []Header, fixed ...Header) []Header {
	if len(extra) == 0 && len(fixed) == 0 {
		return nil
	}
	out := make([]Header, 0, len(extra)+len(fixed))
	index := make(map[string]int, len(extra)+len(fixed))

	add := func(header Header) {
		name := strings.TrimSpace(header.Name)
		if name == "" {
			return
		}
		key := http.CanonicalHeaderKey(name)
		if i, ok := index[key]; ok {
			out[i] = Header{Name: name, Value: header.Value}
			return
		}
		index[key] = len(out)
		out = append(out, Header{Name: name, Value: header.Value})
	}

	for _, header := range extra {
		add(header)
	}
	for _, header := range fixed {
		add(header)
	}
	return out
}
