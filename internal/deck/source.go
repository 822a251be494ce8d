package deck

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/five82/foldview/internal/flip"
	"github.com/five82/foldview/internal/geometry"
	"github.com/five82/foldview/internal/snapshot"
)

// Source serves a Deck to the flip controller.
type Source struct {
	deck  Deck
	fonts *text.FontSource
}

var _ flip.DataSource = (*Source)(nil)

// NewSource loads the page font and wraps d.
func NewSource(d Deck) (*Source, error) {
	fonts, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load page font: %w", err)
	}
	return &Source{deck: d, fonts: fonts}, nil
}

// WithDeck returns a source serving d that shares s's font.
func (s *Source) WithDeck(d Deck) *Source {
	return &Source{deck: d, fonts: s.fonts}
}

// Deck returns the deck being served.
func (s *Source) Deck() Deck { return s.deck }

// PageCount implements flip.DataSource.
func (s *Source) PageCount() int { return s.deck.Len() }

// ContentForPage implements flip.DataSource.
func (s *Source) ContentForPage(i int) flip.Content {
	if i < 0 || i >= s.deck.Len() {
		return nil
	}
	return &pageView{page: s.deck.Pages[i], index: i, total: s.deck.Len(), fonts: s.fonts}
}

type pageView struct {
	page  Page
	index int
	total int
	fonts *text.FontSource
}

// TakeSnapshot draws the page at bounds size and scale: background, title,
// wrapped body and a folio in the bottom corner.
func (v *pageView) TakeSnapshot(bounds geometry.Rect, scale float64) *snapshot.Snapshot {
	w := int(math.Round(bounds.W * scale))
	h := int(math.Round(bounds.H * scale))
	if w <= 0 || h <= 0 {
		return nil
	}
	dc := gg.NewContext(w, h)
	defer func() { _ = dc.Close() }()

	dc.ClearWithColor(gg.FromColor(v.page.Background))
	ink := Ink(v.page.Background)

	fw, fh := float64(w), float64(h)
	margin := math.Max(2, math.Min(fw, fh)*0.06)

	// Spine shadow along the fold so halves read as paper.
	dc.SetRGBA(0, 0, 0, 0.12)
	if fw >= fh {
		dc.DrawRectangle(fw/2-1, 0, 2, fh)
	} else {
		dc.DrawRectangle(0, fh/2-1, fw, 2)
	}
	_ = dc.Fill()

	dc.SetColor(ink)
	titleSize := math.Max(6, fh/9)
	dc.SetFont(v.fonts.Face(titleSize))
	dc.DrawStringAnchored(v.page.Title, fw/2, margin, 0.5, 1)

	bodySize := math.Max(5, fh/20)
	face := v.fonts.Face(bodySize)
	dc.SetFont(face)
	_, lineH := dc.MeasureString("Mg")
	y := margin + titleSize*1.6
	for _, line := range text.WrapText(v.page.Body, face, fw-2*margin, text.WrapWordChar) {
		if y+lineH > fh-margin-bodySize {
			break
		}
		dc.DrawStringAnchored(line.Text, margin, y, 0, 1)
		y += lineH * 1.2
	}

	dc.SetColor(fade(ink))
	dc.DrawStringAnchored(fmt.Sprintf("%d / %d", v.index+1, v.total), fw-margin, fh-margin, 1, 0)

	_ = dc.FlushGPU()
	return snapshot.New(dc.Image(), scale)
}

func fade(c color.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 170}
}
