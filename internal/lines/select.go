package lines

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Selection window and cut applied to element line tables.
const (
	MinWavelength = 380.0
	MaxWavelength = 750.0
	MinRelative   = 0.01
)

// SpectralLine is a single emission line with intensity normalized to (0,1].
type SpectralLine struct {
	Wavelength float64 `json:"wavelength" doc:"Vacuum wavelength in nm"`
	Intensity  float64 `json:"intensity" doc:"Relative intensity in (0,1]"`
}

// Selection is the result of Select: the retained lines and the indices
// of the table rows they came from.
type Selection struct {
	Lines []SpectralLine
	Rows  []int
}

var leadingNumber = regexp.MustCompile(`^-?[\d.]+`)

// ParseIntensity parses the leading numeric prefix of a NIST intensity
// field ("500bl", "25*"), returning NaN when there is none.
func ParseIntensity(s string) float64 {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ParseWavelength parses a wavelength field, returning NaN when blank or malformed.
func ParseWavelength(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Select keeps rows with a finite wavelength strictly inside the visible
// window and a finite intensity, normalizes intensities by the maximum
// kept value and drops lines at or below MinRelative.
func Select(t *Table) (Selection, error) {
	wlCol := t.ColumnIndex(ColumnWavelength)
	if wlCol < 0 {
		return Selection{}, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnWavelength)
	}
	inCol := t.ColumnIndex(ColumnIntensity)
	if inCol < 0 {
		return Selection{}, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnIntensity)
	}

	var (
		keptRows []int
		wavs     []float64
		amps     []float64
		maxAmp   = math.Inf(-1)
	)
	for i := range t.Rows {
		w := ParseWavelength(t.Value(i, wlCol))
		a := ParseIntensity(t.Value(i, inCol))
		if !isFinite(w) || !isFinite(a) || w <= MinWavelength || w >= MaxWavelength {
			continue
		}
		keptRows = append(keptRows, i)
		wavs = append(wavs, w)
		amps = append(amps, a)
		if a > maxAmp {
			maxAmp = a
		}
	}

	sel := Selection{}
	if len(keptRows) == 0 || maxAmp <= 0 {
		return sel, nil
	}

	for i, a := range amps {
		rel := a / maxAmp
		if rel > MinRelative {
			sel.Lines = append(sel.Lines, SpectralLine{Wavelength: wavs[i], Intensity: rel})
			sel.Rows = append(sel.Rows, keptRows[i])
		}
	}

	return sel, nil
}

// HasIntensities reports whether any row carries a finite intensity.
func HasIntensities(t *Table) bool {
	col := t.ColumnIndex(ColumnIntensity)
	if col < 0 {
		return false
	}
	for i := range t.Rows {
		if isFinite(ParseIntensity(t.Value(i, col))) {
			return true
		}
	}
	return false
}
