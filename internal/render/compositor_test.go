package render

import (
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/foldview/internal/flip"
	"github.com/five82/foldview/internal/geometry"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCompositor(t *testing.T) (*Compositor, *clock) {
	t.Helper()
	clk := &clock{t: time.Unix(1000, 0)}
	c := New(Options{
		Size:       geometry.Rect{W: 40, H: 20},
		Scale:      1,
		Background: gg.RGBA{R: 1, G: 1, B: 1, A: 1},
		Clock:      clk.now,
	})
	return c, clk
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func leaf(c *Compositor) flip.LayerID {
	id := c.CreateLayer(flip.LayerSpec{
		Orientation: geometry.Horizontal,
		Frame:       geometry.Rect{W: 20, H: 20},
		Anchor:      geometry.Point{X: 1, Y: 0.5},
	})
	c.AddFace(id, flip.FaceFront)
	c.AddFace(id, flip.FaceBack)
	return id
}

func TestRotateAnimatesLinearly(t *testing.T) {
	c, clk := newTestCompositor(t)
	id := leaf(c)
	c.Rotate(id, -math.Pi, flip.Transaction{})
	assert.Equal(t, -math.Pi, c.PresentationAngle(id))

	tok := flip.Token{Unit: 1, Seq: 1}
	c.Rotate(id, 0, flip.Transaction{Duration: 100 * time.Millisecond, Completion: tok})
	assert.True(t, c.Animating())

	clk.advance(50 * time.Millisecond)
	assert.InDelta(t, -math.Pi/2, c.PresentationAngle(id), 1e-9)
	assert.Empty(t, c.Tick(clk.t))

	clk.advance(50 * time.Millisecond)
	assert.Equal(t, []flip.Token{tok}, c.Tick(clk.t))
	assert.Empty(t, c.Tick(clk.t), "a token is reported once")
	assert.False(t, c.Animating())
	assert.Zero(t, c.PresentationAngle(id))
}

func TestRotateSupersedesRunningAnimation(t *testing.T) {
	c, clk := newTestCompositor(t)
	id := leaf(c)
	first := flip.Token{Unit: 1, Seq: 1}
	second := flip.Token{Unit: 1, Seq: 2}

	c.Rotate(id, 1, flip.Transaction{Duration: time.Second, Completion: first})
	clk.advance(250 * time.Millisecond)
	c.Rotate(id, 0, flip.Transaction{Duration: time.Second, Completion: second})

	assert.InDelta(t, 0.25, c.PresentationAngle(id), 1e-9, "restarts from the presented angle")
	assert.Equal(t, []flip.Token{first}, c.Tick(clk.t))

	clk.advance(time.Second)
	assert.Equal(t, []flip.Token{second}, c.Tick(clk.t))
}

func TestInstantRotateReportsOnNextTick(t *testing.T) {
	c, clk := newTestCompositor(t)
	id := leaf(c)
	tok := flip.Token{Unit: 3, Seq: 9}

	c.Rotate(id, 2, flip.Transaction{Completion: tok})

	assert.Equal(t, 2.0, c.PresentationAngle(id))
	assert.True(t, c.Animating())
	assert.Equal(t, []flip.Token{tok}, c.Tick(clk.t))
}

func TestDetachReportsOwedCompletion(t *testing.T) {
	c, clk := newTestCompositor(t)
	id := leaf(c)
	tok := flip.Token{Unit: 1, Seq: 4}
	c.Rotate(id, 1, flip.Transaction{Duration: time.Second, Completion: tok})

	c.Detach(id)
	c.Detach(id)

	assert.Equal(t, []flip.Token{tok}, c.Tick(clk.t))
	assert.Zero(t, c.PresentationAngle(id))
	c.Rotate(id, 1, flip.Transaction{Completion: flip.Token{Unit: 1, Seq: 5}})
	assert.Empty(t, c.Tick(clk.t), "detached layers ignore updates")
}

func TestTickOrdersByLayer(t *testing.T) {
	c, clk := newTestCompositor(t)
	a, b := leaf(c), leaf(c)
	ta := flip.Token{Unit: 1, Seq: 1}
	tb := flip.Token{Unit: 2, Seq: 2}
	c.Rotate(b, 1, flip.Transaction{Duration: time.Millisecond, Completion: tb})
	c.Rotate(a, 1, flip.Transaction{Duration: time.Millisecond, Completion: ta})

	clk.advance(time.Millisecond)
	assert.Equal(t, []flip.Token{ta, tb}, c.Tick(clk.t))
}

func TestFrameShowsActivePage(t *testing.T) {
	c, _ := newTestCompositor(t)
	red := color.RGBA{R: 255, A: 255}
	c.ShowActive(solid(40, 20, red))

	img, err := c.Frame()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 20), img.Bounds())
	assertColor(t, red, img.At(30, 10))

	c.HideActive()
	img, err = c.Frame()
	require.NoError(t, err)
	assertColor(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.At(30, 10))
}

func TestFrameDrawsFlatLeaves(t *testing.T) {
	front := color.RGBA{G: 255, A: 255}
	back := color.RGBA{B: 255, A: 255}
	tests := []struct {
		name  string
		angle float64
		// probe lies over the half the leaf covers
		probe image.Point
		want  color.RGBA
	}{
		{"over end half", -math.Pi, image.Pt(30, 10), front},
		{"over start half", 0, image.Pt(10, 10), back},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCompositor(t)
			id := leaf(c)
			c.SetFaceContent(id, flip.FaceFront, solid(20, 20, front))
			c.SetFaceContent(id, flip.FaceBack, solid(20, 20, back))
			c.Rotate(id, tt.angle, flip.Transaction{Perspective: geometry.Perspective})

			img, err := c.Frame()
			require.NoError(t, err)
			assertColor(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.At(tt.probe.X, tt.probe.Y))

			c.Attach(id)
			img, err = c.Frame()
			require.NoError(t, err)
			assertColor(t, tt.want, img.At(tt.probe.X, tt.probe.Y))
		})
	}
}

func TestFrameStaticSlotsOnlyWhenAttached(t *testing.T) {
	c, _ := newTestCompositor(t)
	left := color.RGBA{R: 200, A: 255}
	c.SetStaticContent(geometry.SideStart, solid(20, 20, left), geometry.Rect{W: 20, H: 20})

	img, err := c.Frame()
	require.NoError(t, err)
	assertColor(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.At(5, 5))

	c.SetStaticAttached(true)
	img, err = c.Frame()
	require.NoError(t, err)
	assertColor(t, left, img.At(5, 5))
}

func TestLeafStripsForeshortenNearVertical(t *testing.T) {
	spec := flip.LayerSpec{
		Orientation: geometry.Horizontal,
		Frame:       geometry.Rect{W: 100, H: 50},
	}
	f := &face{w: 100, h: 50}

	flat := leafStrips(spec, f, -math.Pi, geometry.Perspective, 1, 10)
	require.Len(t, flat, 10)
	assert.Equal(t, 100.0, flat[0].lo, "front face starts at the hinge")
	assert.Equal(t, image.Rect(0, 0, 10, 50), flat[0].src)
	assert.InDelta(t, 0, flat[0].shade, 1e-9)

	lifted := leafStrips(spec, f, -math.Pi/2+0.3, geometry.Perspective, 1, 10)
	require.NotEmpty(t, lifted)
	last := lifted[len(lifted)-1]
	assert.Less(t, last.hi, 200.0)
	assert.Greater(t, last.crossHi-last.crossLo, 50.0, "the raised edge is nearer the eye")
	assert.Equal(t, image.Rect(80, 0, 100, 50), leafStrips(spec, f, 0, geometry.Perspective, 1, 5)[0].src,
		"back face maps the hinge column to its far edge")

	vspec := flip.LayerSpec{Orientation: geometry.Vertical, Frame: geometry.Rect{W: 50, H: 100}}
	v := leafStrips(vspec, &face{w: 50, h: 100}, math.Pi, geometry.Perspective, 1, 4)
	require.Len(t, v, 4)
	x, y, w, h := v[0].rect()
	assert.Equal(t, []float64{0, 100, 50, 25}, []float64{x, y, w, h})
}

func assertColor(t *testing.T, want color.RGBA, got color.Color) {
	t.Helper()
	r, g, b, a := got.RGBA()
	have := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
	assert.InDelta(t, want.R, have.R, 3, "red")
	assert.InDelta(t, want.G, have.G, 3, "green")
	assert.InDelta(t, want.B, have.B, 3, "blue")
	assert.InDelta(t, want.A, have.A, 3, "alpha")
}
