// Package render draws filter curves and element spectra as PNG images.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/RMahshie/spectra/internal/colormap"
)

var (
	ErrNothingToDraw = errors.New("render: nothing to draw")
	ErrInvalidSize   = errors.New("render: invalid image size")
)

// Size is an output image size in pixels.
type Size struct {
	Width  int
	Height int
}

// DefaultSize is used when a zero Size is passed.
var DefaultSize = Size{Width: 900, Height: 500}

const margin = 40.0

func (s Size) resolve() (Size, error) {
	if s.Width == 0 && s.Height == 0 {
		return DefaultSize, nil
	}
	if s.Width <= 2*margin || s.Height <= 2*margin {
		return s, fmt.Errorf("%w: %dx%d", ErrInvalidSize, s.Width, s.Height)
	}
	return s, nil
}

// plot maps data coordinates into the plotting area of a context.
type plot struct {
	dc         *gg.Context
	xlo, xhi   float64
	ylo, yhi   float64
	left, top  float64
	right, bot float64
}

func newPlot(dc *gg.Context, xlo, xhi, ylo, yhi float64) *plot {
	if xhi <= xlo {
		xhi = xlo + 1
	}
	if yhi <= ylo {
		yhi = ylo + 1
	}
	return &plot{
		dc:  dc,
		xlo: xlo, xhi: xhi,
		ylo: ylo, yhi: yhi,
		left: margin, top: margin,
		right: float64(dc.Width()) - margin,
		bot:   float64(dc.Height()) - margin,
	}
}

func (p *plot) x(v float64) float64 {
	return p.left + (v-p.xlo)/(p.xhi-p.xlo)*(p.right-p.left)
}

func (p *plot) y(v float64) float64 {
	return p.bot - (v-p.ylo)/(p.yhi-p.ylo)*(p.bot-p.top)
}

// Font sizes in pixels.
const (
	tickFontSize    = 11
	captionFontSize = 13
	labelFontSize   = 14
)

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
	fontErr    error
)

// face returns the Go Regular face at size. The font source is parsed once.
func face(size float64) (text.Face, error) {
	fontOnce.Do(func() {
		fontSource, fontErr = text.NewFontSource(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("failed to load font: %w", fontErr)
	}
	return fontSource.Face(size), nil
}

// frame strokes the plot border with a labelled tick every 50 nm and
// writes the axis captions. An empty caption is skipped.
func (p *plot) frame(c gg.RGBA, xCaption, yCaption string) error {
	dc := p.dc
	dc.SetRGBA(c.R, c.G, c.B, c.A)
	dc.SetLineWidth(1)
	dc.DrawRectangle(p.left, p.top, p.right-p.left, p.bot-p.top)
	var ticks []float64
	for t := math.Ceil(p.xlo/50) * 50; t <= p.xhi; t += 50 {
		dc.DrawLine(p.x(t), p.bot, p.x(t), p.bot+6)
		ticks = append(ticks, t)
	}
	if err := dc.Stroke(); err != nil {
		return err
	}

	small, err := face(tickFontSize)
	if err != nil {
		return err
	}
	dc.SetFont(small)
	for _, t := range ticks {
		dc.DrawStringAnchored(strconv.FormatFloat(t, 'f', -1, 64), p.x(t), p.bot+8, 0.5, 1)
	}

	caption, err := face(captionFontSize)
	if err != nil {
		return err
	}
	dc.SetFont(caption)
	if xCaption != "" {
		dc.DrawStringAnchored(xCaption, (p.left+p.right)/2, float64(dc.Height())-4, 0.5, 0)
	}
	if yCaption != "" {
		dc.DrawStringAnchored(yCaption, p.left, p.top-8, 0, 0)
	}
	return nil
}

// setColor sets the RGB channels of c with the given alpha in [0,1].
func setColor(dc *gg.Context, c colormap.Color, alpha float64) {
	r, g, b, _ := c.Float()
	dc.SetRGBA(r, g, b, alpha)
}

func encode(dc *gg.Context, w io.Writer) error {
	defer dc.Close()
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
