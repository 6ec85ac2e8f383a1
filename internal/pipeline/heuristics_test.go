package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/contracts-tracker/internal/testutil"
)

func TestWordCount(t *testing.T) {
	cases := map[string]int{
		"":                          0,
		"   \n\t ":                  0,
		"one":                       1,
		"  one   two\nthree\tfour ": 4,
	}
	for in, want := range cases {
		assert.Equal(t, want, WordCount(in), "%q", in)
	}
}

func TestIsImageBased_Threshold(t *testing.T) {
	assert.True(t, IsImageBased(WordCount(testutil.Words(19))))
	assert.False(t, IsImageBased(WordCount(testutil.Words(20))))
	assert.True(t, IsImageBased(0))
}
