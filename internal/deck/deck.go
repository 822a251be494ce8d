// Package deck supplies the pages the flip controller turns through: a
// built-in sample deck or a directory of text files.
package deck

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// SampleSize is the number of pages in the built-in deck.
const SampleSize = 10

// ErrEmptyDeck is returned when a deck directory holds no pages.
var ErrEmptyDeck = errors.New("deck has no pages")

// Page is one page of content.
type Page struct {
	Title      string
	Body       string
	Background color.RGBA
}

// Deck is an ordered, immutable list of pages.
type Deck struct {
	Name  string
	Pages []Page
}

// Len returns the number of pages.
func (d Deck) Len() int { return len(d.Pages) }

// Fingerprint identifies the deck's content. Equal decks have equal
// fingerprints.
func (d Deck) Fingerprint() uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(d.Name)
	for _, p := range d.Pages {
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(p.Title)
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(p.Body)
		_, _ = h.Write([]byte{p.Background.R, p.Background.G, p.Background.B})
	}
	return h.Sum64()
}

// Sample returns n pages with random background colours. The same seed
// always produces the same deck.
func Sample(n int, seed uint64) Deck {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	d := Deck{Name: "sample", Pages: make([]Page, n)}
	for i := range d.Pages {
		c := colorful.Hsv(rng.Float64()*360, 0.35+rng.Float64()*0.4, 0.55+rng.Float64()*0.4)
		d.Pages[i] = Page{
			Title:      fmt.Sprintf("Page %d", i+1),
			Body:       "Drag across the page to turn it.",
			Background: toRGBA(c),
		}
	}
	return d
}

// LoadDir reads every *.txt and *.md file in dir, sorted by name. The first
// non-empty line is the title (a leading markdown heading marker is
// stripped); the rest is the body.
func LoadDir(dir string) (Deck, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Deck{}, fmt.Errorf("read deck dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".txt", ".md":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	d := Deck{Name: filepath.Base(dir)}
	for _, name := range names {
		p, err := readPage(filepath.Join(dir, name))
		if err != nil {
			return Deck{}, err
		}
		if p.Title == "" {
			p.Title = strings.TrimSuffix(name, filepath.Ext(name))
		}
		p.Background = pageBackground(name)
		d.Pages = append(d.Pages, p)
	}
	if len(d.Pages) == 0 {
		return Deck{}, fmt.Errorf("load %s: %w", dir, ErrEmptyDeck)
	}
	return d, nil
}

func readPage(path string) (Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return Page{}, fmt.Errorf("open page: %w", err)
	}
	defer func() { _ = f.Close() }()

	var (
		p     Page
		body  []string
		title bool
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if !title {
			if strings.TrimSpace(line) == "" {
				continue
			}
			p.Title = strings.TrimSpace(strings.TrimLeft(line, "#"))
			title = true
			continue
		}
		body = append(body, line)
	}
	if err := scanner.Err(); err != nil {
		return Page{}, fmt.Errorf("read page %s: %w", filepath.Base(path), err)
	}
	p.Body = strings.TrimSpace(strings.Join(body, "\n"))
	return p, nil
}

// pageBackground picks a stable muted colour for a file name.
func pageBackground(name string) color.RGBA {
	hue := float64(xxhash.Sum64String(name)%360)
	return toRGBA(colorful.Hsv(hue, 0.3, 0.85))
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Ink returns a text colour that reads on bg.
func Ink(bg color.RGBA) color.RGBA {
	c, _ := colorful.MakeColor(bg)
	if l, _, _ := c.Lab(); l > 0.6 {
		return color.RGBA{R: 24, G: 24, B: 28, A: 255}
	}
	return color.RGBA{R: 245, G: 245, B: 240, A: 255}
}
