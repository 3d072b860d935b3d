// Package generator drives a documentation build: it loads the
// configuration, copies static assets, renders the fixed set of page
// templates into an output directory and optionally records a checksum
// manifest of the result.
package generator
