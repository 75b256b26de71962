package render

import (
	htmltemplate "html/template"
)

// Fragment is rendered, already escaped HTML. Embed it verbatim; escaping it
// again would corrupt the output.
type Fragment string

func (f Fragment) String() string {
	return string(f)
}

// HTML marks the fragment as trusted for html/template callers.
func (f Fragment) HTML() htmltemplate.HTML {
	return htmltemplate.HTML(f)
}
