package templating

// Exported aliases for testing internal functions from
// the templating_test package.

// ConditionalFallbackForTest exposes conditionalFallback.
var ConditionalFallbackForTest = conditionalFallback

// HasBlockForTest exposes hasBlock.
var HasBlockForTest = hasBlock
