// Package assets copies the static asset directories of a documentation
// template (stylesheets, scripts, images) into the output directory.
package assets
