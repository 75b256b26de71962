// Package status holds the HTTP status labels shown in documentation
// fragments. The table is display data only; nothing dispatches on it.
package status

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-exampledoc/pkg/examples"
)

var defaultLabels = map[int]string{
	200: "200 OK",
	201: "201 Created",
	202: "202 Accepted",
	204: "204 No Content",
	205: "205 Reset Content",
	301: "301 Moved Permanently",
	302: "302 Found",
	307: "307 Temporary Redirect",
	304: "304 Not Modified",
	401: "401 Unauthorized",
	403: "403 Forbidden",
	404: "404 Not Found",
	405: "405 Method not allowed",
	409: "409 Conflict",
	422: "422 Unprocessable Entity",
	500: "500 Server Error",
	502: "502 Bad Gateway",
}

// Table is an immutable status code to label mapping.
type Table struct {
	labels map[int]string
	codes  []int
}

// New copies labels into a Table.
func New(labels map[int]string) *Table {
	t := &Table{
		labels: make(map[int]string, len(labels)),
		codes:  make([]int, 0, len(labels)),
	}
	for code, label := range labels {
		t.labels[code] = label
		t.codes = append(t.codes, code)
	}
	sort.Ints(t.codes)
	return t
}

// Default returns the stock documentation table.
func Default() *Table {
	return New(defaultLabels)
}

// Label returns the display label for code or a *examples.LookupError.
func (t *Table) Label(code int) (string, error) {
	if t != nil {
		if label, ok := t.labels[code]; ok {
			return label, nil
		}
	}
	return "", &examples.LookupError{Kind: "status", Key: fmt.Sprint(code)}
}

// Has reports whether code has a label.
func (t *Table) Has(code int) bool {
	if t == nil {
		return false
	}
	_, ok := t.labels[code]
	return ok
}

// Codes returns the known codes in ascending order.
func (t *Table) Codes() []int {
	if t == nil {
		return nil
	}
	return append([]int(nil), t.codes...)
}

// Placeholder is the deterministic label used when unknown codes are
// tolerated.
func Placeholder(code int) string {
	return fmt.Sprintf("%d Unknown Status", code)
}
