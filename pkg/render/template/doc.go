// Package template defines the renderer-agnostic template seam used to lay out
// documentation fragments. Concrete engines live in sub-packages.
package template
