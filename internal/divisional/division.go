// Package divisional projects a longitude into harmonic (divisional) charts.
//
// Every supported division count N maps the degree within a sign to one of N
// equal slots and remaps the slot to a sign. Most charts share the general rule
// (N·sign + slot) mod 12; the two-part (Hora), three-part (Drekkana) and nine-part
// (Navamsa) charts carry their own traditional rules.
package divisional

import (
	"fmt"

	"jyotish-lab/internal/domain"
)

// Division describes one supported divisional chart.
type Division struct {
	N    int    // number of parts per sign
	Code string // conventional short code, e.g. "D9"
	Name string // traditional name
}

// Divisions lists every supported chart in ascending order of N. Read-only.
var Divisions = []Division{
	{N: 1, Code: "D1", Name: "Rasi"},
	{N: 2, Code: "D2", Name: "Hora"},
	{N: 3, Code: "D3", Name: "Drekkana"},
	{N: 4, Code: "D4", Name: "Chaturthamsa"},
	{N: 5, Code: "D5", Name: "Panchamsa"},
	{N: 6, Code: "D6", Name: "Shashthamsa"},
	{N: 7, Code: "D7", Name: "Saptamsa"},
	{N: 8, Code: "D8", Name: "Ashtamsa"},
	{N: 9, Code: "D9", Name: "Navamsa"},
	{N: 10, Code: "D10", Name: "Dasamsa"},
	{N: 12, Code: "D12", Name: "Dwadasamsa"},
	{N: 16, Code: "D16", Name: "Shodasamsa"},
	{N: 20, Code: "D20", Name: "Vimsamsa"},
	{N: 24, Code: "D24", Name: "Chaturvimsamsa"},
	{N: 30, Code: "D30", Name: "Trimsamsa"},
}

var byN = func() map[int]Division {
	m := make(map[int]Division, len(Divisions))
	for _, d := range Divisions {
		m[d.N] = d
	}
	return m
}()

// Lookup returns the metadata for division count n.
func Lookup(n int) (Division, error) {
	d, ok := byN[n]
	if !ok {
		return Division{}, fmt.Errorf("D%d: %w", n, domain.ErrInvalidDivision)
	}
	return d, nil
}

// Harmonics returns every supported division count except D1, in ascending order.
func Harmonics() []int {
	out := make([]int, 0, len(Divisions)-1)
	for _, d := range Divisions {
		if d.N != 1 {
			out = append(out, d.N)
		}
	}
	return out
}
