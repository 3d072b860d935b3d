// Package templating renders documentation page templates against a
// configuration tree.
//
// Templates contain {{NAME}} placeholders and {{#NAME}} ... {{/NAME}}
// blocks. Render substitutes the top-level scalars, then runs one loop pass
// and one conditional pass per documentation section (homepage, quickstart,
// core_concept, api, in that order) using the section's mapping as scope.
// A block bound to a list of mappings repeats its content once per item; any
// other block is kept or dropped depending on the truthiness of its value.
//
// The Engine type expands a single template file, layering workspace status
// stamps and NAME=VALUE variables on top of the configuration.
package templating
