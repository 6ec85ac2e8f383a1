package extract

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/contracts-tracker/internal/common"
	"github.com/joseph-ayodele/contracts-tracker/internal/testutil"
)

type fakeRunner struct {
	out, errb []byte
	err       error
	name      string
	args      []string
	sawFile   bool
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.name, f.args = name, args
	if len(args) >= 2 {
		_, statErr := os.Stat(args[len(args)-2])
		f.sawFile = statErr == nil
	}
	return f.out, f.errb, f.err
}

func newCommandExtractor(r Runner) *CommandExtractor {
	e := NewCommandExtractor("", testutil.DiscardLogger())
	e.runner = r
	return e
}

func TestCommandExtractor_SplitsPages(t *testing.T) {
	r := &fakeRunner{out: []byte("page one text\fpage two text\f")}
	e := newCommandExtractor(r)

	res, err := e.ExtractText(context.Background(), testutil.BuildPDF("x"))
	require.NoError(t, err)
	assert.Equal(t, "pdftotext", r.name)
	assert.Equal(t, "-layout", r.args[0])
	assert.True(t, r.sawFile)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, "page one text\npage two text", res.Text)
}

func TestCommandExtractor_FailureIsTextExtractionError(t *testing.T) {
	r := &fakeRunner{errb: []byte("Syntax Error: Couldn't find trailer dictionary"), err: errors.New("exit status 1")}
	e := newCommandExtractor(r)

	_, err := e.ExtractText(context.Background(), []byte("%PDF-1.4 broken"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrTextExtraction)
	assert.Contains(t, common.Message(err), "trailer dictionary")
}

type stubExtractor struct {
	res   Result
	err   error
	calls int
}

func (s *stubExtractor) ExtractText(context.Context, []byte) (Result, error) {
	s.calls++
	return s.res, s.err
}

func TestFallbackExtractor(t *testing.T) {
	sparse := Result{Text: "two words", Pages: 3}
	rich := Result{Text: "many more words recovered by layout mode", Pages: 3}

	t.Run("enough words skips fallback", func(t *testing.T) {
		p := &stubExtractor{res: rich}
		s := &stubExtractor{res: sparse}
		f := &FallbackExtractor{Primary: p, Secondary: s, MinWords: 5}
		res, err := f.ExtractText(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, rich.Text, res.Text)
		assert.Zero(t, s.calls)
	})

	t.Run("sparse text uses richer fallback", func(t *testing.T) {
		f := &FallbackExtractor{Primary: &stubExtractor{res: sparse}, Secondary: &stubExtractor{res: rich}, MinWords: 5}
		res, err := f.ExtractText(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, rich.Text, res.Text)
	})

	t.Run("fallback no better keeps primary", func(t *testing.T) {
		f := &FallbackExtractor{Primary: &stubExtractor{res: sparse}, Secondary: &stubExtractor{res: Result{Text: "one"}}, MinWords: 5}
		res, err := f.ExtractText(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, sparse.Text, res.Text)
	})

	t.Run("fallback failure becomes warning", func(t *testing.T) {
		f := &FallbackExtractor{
			Primary:   &stubExtractor{res: sparse},
			Secondary: &stubExtractor{err: common.NewTextExtractionError("pdftotext missing", nil)},
			MinWords:  5,
		}
		res, err := f.ExtractText(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, sparse.Text, res.Text)
		assert.Contains(t, res.Warnings, "fallback: pdftotext missing")
	})

	t.Run("primary error is returned", func(t *testing.T) {
		s := &stubExtractor{res: rich}
		f := &FallbackExtractor{Primary: &stubExtractor{err: common.NewTextExtractionError("bad", nil)}, Secondary: s, MinWords: 5}
		_, err := f.ExtractText(context.Background(), nil)
		assert.ErrorIs(t, err, common.ErrTextExtraction)
		assert.Zero(t, s.calls)
	})
}

func TestNew_SelectsFallbackOnlyWhenConfigured(t *testing.T) {
	_, plain := New(common.ExtractConfig{}, nil).(*PDFExtractor)
	assert.True(t, plain)

	fb, ok := New(common.ExtractConfig{Pdftotext: "/usr/bin/pdftotext", MaxPages: 3}, nil).(*FallbackExtractor)
	require.True(t, ok)
	assert.Equal(t, 20, fb.MinWords)
	assert.Equal(t, "/usr/bin/pdftotext", fb.Secondary.(*CommandExtractor).Binary)
	assert.Equal(t, 3, fb.Primary.(*PDFExtractor).maxPages)
}
