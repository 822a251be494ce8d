package deck

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/foldview/internal/geometry"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestSampleIsDeterministic(t *testing.T) {
	a := Sample(SampleSize, 7)
	b := Sample(SampleSize, 7)
	c := Sample(SampleSize, 8)

	require.Equal(t, SampleSize, a.Len())
	assert.Equal(t, "Page 1", a.Pages[0].Title)
	assert.Equal(t, "Page 10", a.Pages[9].Title)
	assert.Empty(t, cmp.Diff(a, b))
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	for _, p := range a.Pages {
		assert.Equal(t, uint8(255), p.Background.A)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "02-second.md", "# Second\n\nBody two\nmore\n")
	writeFile(t, dir, "01-first.txt", "\n\nFirst\nBody one\n")
	writeFile(t, dir, "03-untitled.txt", "")
	writeFile(t, dir, "notes.pdf", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.md"), 0o755))

	d, err := LoadDir(dir)
	require.NoError(t, err)

	got := make([]Page, len(d.Pages))
	for i, p := range d.Pages {
		got[i] = Page{Title: p.Title, Body: p.Body}
	}
	want := []Page{
		{Title: "First", Body: "Body one"},
		{Title: "Second", Body: "Body two\nmore"},
		{Title: "03-untitled"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("pages mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, pageBackground("01-first.txt"), d.Pages[0].Background)
}

func TestLoadDirEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.pdf", "x")

	_, err := LoadDir(dir)
	if !errors.Is(err, ErrEmptyDeck) {
		t.Fatalf("LoadDir error = %v, want ErrEmptyDeck", err)
	}

	_, err = LoadDir(filepath.Join(dir, "missing"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrEmptyDeck))
}

func TestFingerprintTracksContent(t *testing.T) {
	d := Deck{Name: "x", Pages: []Page{{Title: "a", Body: "b"}}}
	same := Deck{Name: "x", Pages: []Page{{Title: "a", Body: "b"}}}
	moved := Deck{Name: "x", Pages: []Page{{Title: "ab", Body: ""}}}

	assert.Equal(t, d.Fingerprint(), same.Fingerprint())
	assert.NotEqual(t, d.Fingerprint(), moved.Fingerprint())
}

func TestInk(t *testing.T) {
	light := Ink(color.RGBA{R: 240, G: 240, B: 230, A: 255})
	dark := Ink(color.RGBA{R: 20, G: 30, B: 40, A: 255})
	assert.Less(t, int(light.R), 100)
	assert.Greater(t, int(dark.R), 200)
}

func TestSourceSnapshots(t *testing.T) {
	src, err := NewSource(Sample(3, 1))
	require.NoError(t, err)
	assert.Equal(t, 3, src.PageCount())
	assert.Nil(t, src.ContentForPage(3))
	assert.Nil(t, src.ContentForPage(-1))

	snap := src.ContentForPage(1).TakeSnapshot(geometry.Rect{W: 60, H: 40}, 2)
	require.NotNil(t, snap)
	w, h := snap.Size()
	assert.Equal(t, []float64{60, 40}, []float64{w, h})
	assert.Equal(t, 120, snap.Image().Bounds().Dx())
	assert.Equal(t, 2.0, snap.Scale())

	// A corner pixel away from text keeps the page colour.
	bg := src.Deck().Pages[1].Background
	r, g, b, _ := snap.Image().At(1, 40).RGBA()
	assert.InDelta(t, int(bg.R), int(r>>8), 2)
	assert.InDelta(t, int(bg.G), int(g>>8), 2)
	assert.InDelta(t, int(bg.B), int(b>>8), 2)

	assert.Nil(t, src.ContentForPage(0).TakeSnapshot(geometry.Rect{}, 1))
}
