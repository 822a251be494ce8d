package render

import (
	"image"
	"math"

	"github.com/gogpu/gg"

	"github.com/five82/foldview/internal/flip"
	"github.com/five82/foldview/internal/geometry"
)

// Strips is the number of slices a leaf is cut into across its extent.
const Strips = 48

const maxShade = 0.35

// Frame rasterizes the current picture: background, then the settled page or
// the static halves, then every attached leaf in z order.
func (c *Compositor) Frame() (image.Image, error) {
	w := int(math.Round(c.size.W * c.scale))
	h := int(math.Round(c.size.H * c.scale))
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rectangle{}), nil
	}
	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.ClearWithColor(c.background)

	if c.active != nil {
		c.blit(dc, c.active, c.size)
	}
	if c.staticAttached {
		for side, f := range c.static {
			if f != nil {
				c.blit(dc, f, c.staticFrames[side])
			}
		}
	}

	now := c.now()
	for _, l := range c.sortedLayers(func(l *layer) float64 { return l.z }) {
		if !l.attached {
			continue
		}
		if err := c.drawLeaf(dc, l, l.anim.at(now)); err != nil {
			return nil, err
		}
	}
	if err := dc.FlushGPU(); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

func (c *Compositor) blit(dc *gg.Context, f *face, dst geometry.Rect) {
	dc.DrawImageEx(f.buf, gg.DrawImageOptions{
		X:             dst.X * c.scale,
		Y:             dst.Y * c.scale,
		DstWidth:      dst.W * c.scale,
		DstHeight:     dst.H * c.scale,
		Interpolation: gg.InterpBilinear,
	})
}

// strip is one slice of a leaf in device pixels. Positions run along the
// flip axis; the cross extent is centred on the leaf.
type strip struct {
	src        image.Rectangle
	lo, hi     float64
	crossLo    float64
	crossHi    float64
	shade      float64
	horizontal bool
}

// leafStrips slices a leaf at angle into n strips. The hinge sits at the
// frame's max edge; the back face lies over the start half when cos(angle)
// is positive and the front face over the end half otherwise.
func leafStrips(spec flip.LayerSpec, f *face, angle, perspective, scale float64, n int) []strip {
	horizontal := spec.Orientation == geometry.Horizontal
	extent := spec.Frame.Extent(spec.Orientation)
	hinge := spec.Frame.MaxX()
	crossMid := spec.Frame.Y + spec.Frame.H/2
	cross := spec.Frame.H
	srcExtent := f.w
	if !horizontal {
		hinge = spec.Frame.MaxY()
		crossMid = spec.Frame.X + spec.Frame.W/2
		cross = spec.Frame.W
		srcExtent = f.h
	}
	if extent <= 0 || srcExtent <= 0 || n <= 0 {
		return nil
	}

	cos, sin := math.Cos(angle), math.Abs(math.Sin(angle))
	backShowing := cos >= 0
	project := func(d float64) (pos, k float64) {
		k = 1 / (1 - perspective*d*sin)
		return hinge - d*cos*k, k
	}

	out := make([]strip, 0, n)
	for i := 0; i < n; i++ {
		d0 := extent * float64(i) / float64(n)
		d1 := extent * float64(i+1) / float64(n)
		p0, _ := project(d0)
		p1, _ := project(d1)
		_, k := project((d0 + d1) / 2)

		c0 := int(math.Floor(float64(srcExtent) * float64(i) / float64(n)))
		c1 := int(math.Ceil(float64(srcExtent) * float64(i+1) / float64(n)))
		if backShowing {
			c0, c1 = srcExtent-c1, srcExtent-c0
		}
		if c1 <= c0 {
			continue
		}

		lo, hi := math.Min(p0, p1), math.Max(p0, p1)
		half := cross * k / 2
		s := strip{
			lo:         math.Floor(lo * scale),
			hi:         math.Ceil(hi * scale),
			crossLo:    math.Floor((crossMid - half) * scale),
			crossHi:    math.Ceil((crossMid + half) * scale),
			shade:      maxShade * sin,
			horizontal: horizontal,
		}
		if s.hi-s.lo < 1 {
			continue
		}
		if horizontal {
			s.src = image.Rect(c0, 0, c1, f.h)
		} else {
			s.src = image.Rect(0, c0, f.w, c1)
		}
		out = append(out, s)
	}
	return out
}

func (s strip) rect() (x, y, w, h float64) {
	if s.horizontal {
		return s.lo, s.crossLo, s.hi - s.lo, s.crossHi - s.crossLo
	}
	return s.crossLo, s.lo, s.crossHi - s.crossLo, s.hi - s.lo
}

func (c *Compositor) drawLeaf(dc *gg.Context, l *layer, angle float64) error {
	f := l.faces[flip.FaceFront]
	if math.Cos(angle) >= 0 {
		f = l.faces[flip.FaceBack]
	}
	if f == nil {
		return nil
	}
	perspective := l.anim.perspective
	if perspective == 0 {
		perspective = geometry.Perspective
	}
	for _, s := range leafStrips(l.spec, f, angle, perspective, c.scale, Strips) {
		src := s.src
		x, y, w, h := s.rect()
		dc.DrawImageEx(f.buf, gg.DrawImageOptions{
			X:             x,
			Y:             y,
			DstWidth:      w,
			DstHeight:     h,
			SrcRect:       &src,
			Interpolation: gg.InterpBilinear,
		})
		if s.shade <= 0 {
			continue
		}
		dc.SetRGBA(0, 0, 0, s.shade)
		dc.DrawRectangle(x, y, w, h)
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	return nil
}
