// Package docconfig holds the configuration tree that drives page rendering.
//
// A configuration document is an ordered mapping (Scope) whose values are
// scalars (text, integers, floats), booleans, nested mappings or sequences.
// Key order is the order of the source document, which matters because
// placeholder substitution walks keys in that order. Load reads JSON with
// goccy/go-json and YAML with goccy/go-yaml; Overlay layers workspace status
// stamps and explicit NAME=VALUE variables on top of a loaded document.
package docconfig
