// Package snapshot holds immutable page bitmaps and the per-page cache the
// flip controller fills as pages become adjacent to the current one.
package snapshot

import (
	"image"
	"image/draw"

	"github.com/five82/foldview/internal/geometry"
)

// Snapshot is a captured page bitmap. Width and Height are logical points;
// the pixel buffer is Width*Scale by Height*Scale.
type Snapshot struct {
	img    *image.RGBA
	width  float64
	height float64
	scale  float64
}

// New copies src into a fresh buffer so later drawing on src never leaks
// into the snapshot.
func New(src image.Image, scale float64) *Snapshot {
	if scale <= 0 {
		scale = 1
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return &Snapshot{
		img:    dst,
		width:  float64(b.Dx()) / scale,
		height: float64(b.Dy()) / scale,
		scale:  scale,
	}
}

// Size returns the logical size in points.
func (s *Snapshot) Size() (w, h float64) { return s.width, s.height }

// Scale returns device pixels per point.
func (s *Snapshot) Scale() float64 { return s.scale }

// Image returns the full bitmap.
func (s *Snapshot) Image() image.Image { return s.img }

// Half crops one half of the bitmap along the orientation's axis. The crop
// shares pixels with the snapshot; snapshots are never written after New.
func (s *Snapshot) Half(o geometry.Orientation, side geometry.Side) image.Image {
	r := geometry.HalfCrop(o, side, s.width, s.height, s.scale)
	return s.img.SubImage(r.Intersect(s.img.Bounds()))
}
