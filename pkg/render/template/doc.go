// Package template defines the renderer seam the HTTP layer uses to turn a
// form handler into a page. Engines live in subpackages.
package template
