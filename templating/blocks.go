package templating

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/byte4ever/docgen/docconfig"
)

const (
	openPrefix  = "{{#"
	closePrefix = "{{/"
	tagSuffix   = "}}"
)

// block is one {{#NAME}}...{{/NAME}} occurrence. start and end delimit the
// whole block including its tags.
type block struct {
	start int
	end   int
	name  string
	inner string
}

// nextBlock returns the leftmost block starting at or after from. The
// closer is the nearest {{/NAME}} following the opener, so the content may
// span lines but never extends past the first matching closer.
func nextBlock(text string, from int) (block, bool) {
	for from < len(text) {
		idx := strings.Index(text[from:], openPrefix)
		if idx < 0 {
			return block{}, false
		}

		start := from + idx
		nameStart := start + len(openPrefix)
		nameEnd := nameStart + wordLen(text[nameStart:])

		if nameEnd > nameStart &&
			strings.HasPrefix(text[nameEnd:], tagSuffix) {
			name := text[nameStart:nameEnd]
			bodyStart := nameEnd + len(tagSuffix)
			closer := closePrefix + name + tagSuffix

			if ci := strings.Index(text[bodyStart:], closer); ci >= 0 {
				return block{
					start: start,
					end:   bodyStart + ci + len(closer),
					name:  name,
					inner: text[bodyStart : bodyStart+ci],
				}, true
			}
		}

		from = start + 1
	}

	return block{}, false
}

// wordLen returns the byte length of the leading run of word characters
// (letters, digits, underscore).
func wordLen(s string) int {
	n := 0

	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}

		n += size
	}

	return n
}

// hasBlock reports whether text contains at least one complete block.
func hasBlock(text string) bool {
	_, ok := nextBlock(text, 0)

	return ok
}

// replaceBlocks rewrites every non-overlapping block of text, scanning left
// to right, with the result of fn. Text produced by fn is not rescanned.
func replaceBlocks(text string, fn func(block) string) string {
	var sb strings.Builder

	pos := 0

	for {
		bl, ok := nextBlock(text, pos)
		if !ok {
			break
		}

		sb.WriteString(text[pos:bl.start])
		sb.WriteString(fn(bl))
		pos = bl.end
	}

	if pos == 0 {
		return text
	}

	sb.WriteString(text[pos:])

	return sb.String()
}

// ExpandConditionals makes a single pass over text. A block whose name is
// bound to a truthy value in data is replaced by its inner content
// verbatim; every other block is removed. Blocks nested in kept content are
// left for later passes.
func ExpandConditionals(text string, data *docconfig.Scope) string {
	return replaceBlocks(text, func(bl block) string {
		if val, ok := data.Get(bl.name); ok && docconfig.Truthy(val) {
			return bl.inner
		}

		return ""
	})
}

// ExpandLoops expands repeatable blocks until no block remains in text.
//
// A block bound in data to a list of mappings is replaced by one copy of its
// content per item: the item's scalars are substituted, then conditionals
// and loops are expanded with the item as scope. Meeting any other block
// abandons the pass and hands the whole pass input to conditionalFallback.
func ExpandLoops(text string, data *docconfig.Scope) string {
	for hasBlock(text) {
		text = loopPass(text, data)
	}

	return text
}

// loopPass runs one left-to-right scan of ExpandLoops.
func loopPass(text string, data *docconfig.Scope) string {
	var sb strings.Builder

	pos := 0

	for {
		bl, ok := nextBlock(text, pos)
		if !ok {
			break
		}

		val, _ := data.Get(bl.name)

		items, isList := docconfig.Items(val)
		if !isList {
			return conditionalFallback(text, data)
		}

		sb.WriteString(text[pos:bl.start])

		for _, item := range items {
			sb.WriteString(expandItem(bl.inner, item))
		}

		pos = bl.end
	}

	sb.WriteString(text[pos:])

	return sb.String()
}

// conditionalFallback is what a loop pass yields when it meets a block that
// is not bound to a list of mappings: the conditional expansion of the
// entire pass input, not only of that block. Loop blocks already expanded
// earlier in the same pass are discarded and re-evaluated as conditionals.
func conditionalFallback(text string, data *docconfig.Scope) string {
	return ExpandConditionals(text, data)
}

// expandItem renders one repetition of a loop body with item as scope.
// Outer scopes are not visible inside the item.
func expandItem(content string, item *docconfig.Scope) string {
	out := SubstituteScalars(content, item)
	out = ExpandConditionals(out, item)

	return ExpandLoops(out, item)
}
