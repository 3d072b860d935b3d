package templating

import (
	"strings"

	"github.com/byte4ever/docgen/docconfig"
)

// SectionOrder lists the configuration sections whose mappings scope the
// block passes of Render. Each section works on the output of the previous
// one, so the order is part of the rendering contract.
var SectionOrder = []string{
	"homepage",
	"quickstart",
	"core_concept",
	"api",
}

// Render expands template against config:
//  1. Every top-level scalar of config replaces its {{KEY}} placeholders,
//     key by key in document order.
//  2. For each section of SectionOrder present in config, ExpandLoops then
//     ExpandConditionals run over the whole text with the section mapping
//     as scope. A section bound to something other than a mapping scopes
//     an empty mapping.
//  3. When config has none of the sections, the two passes run once with
//     config itself as scope.
//
// Render never fails: unknown placeholders stay verbatim and unmatched
// block tags stay as literal text.
func Render(template string, config *docconfig.Scope) string {
	out := SubstituteScalars(template, config)

	scoped := false

	for _, name := range SectionOrder {
		if !config.Has(name) {
			continue
		}

		scoped = true

		// nil when the section is not a mapping.
		section, _ := config.Section(name)

		out = ExpandLoops(out, section)
		out = ExpandConditionals(out, section)
	}

	if !scoped {
		out = ExpandLoops(out, config)
		out = ExpandConditionals(out, config)
	}

	return out
}

// SubstituteScalars replaces {{KEY}} with the text form of every scalar
// bound in data. Keys are applied one after another in insertion order;
// non-scalar and unknown keys are left untouched.
func SubstituteScalars(text string, data *docconfig.Scope) string {
	for _, key := range data.Keys() {
		val, _ := data.Get(key)

		str, ok := docconfig.FormatScalar(val)
		if !ok {
			continue
		}

		text = strings.ReplaceAll(text, "{{"+key+"}}", str)
	}

	return text
}
