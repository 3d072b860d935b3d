// Package preview serves a generated documentation directory over HTTP for
// local review.
package preview
