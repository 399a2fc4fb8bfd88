package filters

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/RMahshie/spectra/internal/colormap"
)

var (
	ErrEmptyCurve = errors.New("filters: curve has no samples")
	ErrMalformed  = errors.New("filters: malformed row")
)

// Curve is a filter transmission curve sampled at increasing wavelengths.
type Curve struct {
	Name        string    `json:"name" doc:"Filter name"`
	Wavelengths []float64 `json:"wavelengths" doc:"Sample wavelengths in nm"`
	Throughput  []float64 `json:"throughput" doc:"Throughput fraction per sample"`
}

// Peak is the sample of maximum throughput.
type Peak struct {
	Index      int     `json:"index"`
	Wavelength float64 `json:"wavelength"`
	Throughput float64 `json:"throughput"`
}

// Parse reads a whitespace-delimited two-column table (wavelength,
// throughput) with no header. Blank lines and lines starting with '#' are
// skipped; columns past the second are ignored.
func Parse(name string, r io.Reader) (*Curve, error) {
	c := &Curve{Name: name}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: %s line %d: expected 2 columns, got %d", ErrMalformed, name, lineNo, len(fields))
		}
		wl, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrMalformed, name, lineNo, err)
		}
		tp, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrMalformed, name, lineNo, err)
		}

		c.Wavelengths = append(c.Wavelengths, wl)
		c.Throughput = append(c.Throughput, tp)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read filter %s: %w", name, err)
	}

	return c, nil
}

// Len returns the number of samples.
func (c *Curve) Len() int {
	return len(c.Wavelengths)
}

// Peak returns the first sample with maximum throughput.
func (c *Curve) Peak() (Peak, error) {
	if c.Len() == 0 {
		return Peak{}, ErrEmptyCurve
	}
	best := 0
	for i, v := range c.Throughput {
		if v > c.Throughput[best] {
			best = i
		}
	}
	return Peak{Index: best, Wavelength: c.Wavelengths[best], Throughput: c.Throughput[best]}, nil
}

// Bounds returns the smallest and largest sampled wavelength.
func (c *Curve) Bounds() (lo, hi float64, err error) {
	if c.Len() == 0 {
		return 0, 0, ErrEmptyCurve
	}
	lo, hi = c.Wavelengths[0], c.Wavelengths[0]
	for _, w := range c.Wavelengths[1:] {
		if w < lo {
			lo = w
		}
		if w > hi {
			hi = w
		}
	}
	return lo, hi, nil
}

// Color returns the display color of the curve, taken at its peak.
func (c *Curve) Color(gamma float64) (colormap.Color, error) {
	p, err := c.Peak()
	if err != nil {
		return colormap.Color{}, err
	}
	return colormap.WavelengthToColor(p.Wavelength, gamma), nil
}
