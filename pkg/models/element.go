package models

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownElement is returned when a key, symbol or atomic number does
// not name an element of the periodic table.
var ErrUnknownElement = errors.New("unknown element")

// Element identifies a chemical element by atomic number and symbol.
type Element struct {
	Number int    `json:"number" minimum:"1" maximum:"118" doc:"Atomic number"`
	Symbol string `json:"symbol" doc:"Element symbol"`
}

// Key returns the storage key form "<Z>-<Symbol>", e.g. "26-Fe".
func (e Element) Key() string {
	return strconv.Itoa(e.Number) + "-" + e.Symbol
}

func (e Element) String() string {
	return e.Key()
}

var symbols = []string{
	"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca",
	"Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr", "Rb", "Sr", "Y", "Zr",
	"Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn",
	"Sb", "Te", "I", "Xe", "Cs", "Ba", "La", "Ce", "Pr", "Nd",
	"Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb",
	"Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn", "Fr", "Ra", "Ac", "Th",
	"Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm",
	"Md", "No", "Lr", "Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds",
	"Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

// Elements returns the full catalogue, Z = 1..118, in atomic number order.
func Elements() []Element {
	out := make([]Element, len(symbols))
	for i, s := range symbols {
		out[i] = Element{Number: i + 1, Symbol: s}
	}
	return out
}

// ElementByNumber returns the element with atomic number z.
func ElementByNumber(z int) (Element, error) {
	if z < 1 || z > len(symbols) {
		return Element{}, fmt.Errorf("%w: atomic number %d", ErrUnknownElement, z)
	}
	return Element{Number: z, Symbol: symbols[z-1]}, nil
}

// ElementBySymbol looks a symbol up case-insensitively.
func ElementBySymbol(sym string) (Element, error) {
	for i, s := range symbols {
		if strings.EqualFold(s, sym) {
			return Element{Number: i + 1, Symbol: s}, nil
		}
	}
	return Element{}, fmt.Errorf("%w: symbol %q", ErrUnknownElement, sym)
}

// ParseElementKey parses "<Z>-<Symbol>". The number and symbol must agree.
func ParseElementKey(key string) (Element, error) {
	num, sym, ok := strings.Cut(key, "-")
	if !ok {
		return Element{}, fmt.Errorf("%w: malformed key %q", ErrUnknownElement, key)
	}
	z, err := strconv.Atoi(num)
	if err != nil {
		return Element{}, fmt.Errorf("%w: malformed key %q", ErrUnknownElement, key)
	}
	e, err := ElementByNumber(z)
	if err != nil {
		return Element{}, err
	}
	if e.Symbol != sym {
		return Element{}, fmt.Errorf("%w: key %q does not match %s", ErrUnknownElement, key, e.Key())
	}
	return e, nil
}

// LookupElement accepts a key ("26-Fe"), a symbol ("Fe", "fe") or an
// atomic number ("26").
func LookupElement(s string) (Element, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "-") {
		return ParseElementKey(s)
	}
	if z, err := strconv.Atoi(s); err == nil {
		return ElementByNumber(z)
	}
	return ElementBySymbol(s)
}

// SortElements orders elements by atomic number.
func SortElements(es []Element) {
	sort.Slice(es, func(i, j int) bool { return es[i].Number < es[j].Number })
}
