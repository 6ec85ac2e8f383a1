package pipeline

import (
	"strings"

	"github.com/joseph-ayodele/contracts-tracker/constants"
)

const ImageBasedWordThreshold = constants.ImageBasedWordThreshold

// WordCount counts whitespace-delimited tokens of the trimmed text.
// Empty or all-whitespace text counts as zero.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// IsImageBased reports whether a document with wordCount words looks scanned.
func IsImageBased(wordCount int) bool {
	return wordCount < ImageBasedWordThreshold
}
