package divisional

import (
	"math"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/zodiac"
)

// Projection is the result of projecting one longitude into one divisional chart.
type Projection struct {
	Division int
	Sign     domain.Sign
	Part     int // 1-based part index; only set for the nine-part chart
}

// drekkanaOffsets are the sign offsets for the three 10° thirds.
var drekkanaOffsets = [3]int{0, 3, 7}

// Project maps a raw longitude into division n.
// Returns ErrInvalidDivision for an unsupported n.
func Project(longitude float64, n int) (Projection, error) {
	if _, err := Lookup(n); err != nil {
		return Projection{}, err
	}
	return project(zodiac.Decompose(longitude), n), nil
}

// ProjectDecomposition is Project for an already decomposed longitude.
func ProjectDecomposition(d domain.SignDecomposition, n int) (Projection, error) {
	if _, err := Lookup(n); err != nil {
		return Projection{}, err
	}
	return project(d, n), nil
}

func project(d domain.SignDecomposition, n int) Projection {
	switch n {
	case 2:
		return Hora(d)
	case 3:
		return Drekkana(d)
	case 9:
		return Navamsa(d)
	default:
		return General(d, n)
	}
}

// Slot returns the 0-based division slot of a degree within a sign, in [0, n).
func Slot(degree float64, n int) int {
	slot := int(math.Floor(degree / (domain.SignWidth / float64(n))))
	if slot < 0 {
		return 0
	}
	if slot >= n {
		return n - 1
	}
	return slot
}

// General applies (n·sign + slot) mod 12.
func General(d domain.SignDecomposition, n int) Projection {
	slot := Slot(d.Degree, n)
	return Projection{
		Division: n,
		Sign:     domain.Sign((n*int(d.Sign) + slot) % domain.SignCount),
	}
}

// Hora is the two-part wealth chart. Odd signs give Leo then Cancer;
// even signs give Cancer then Leo.
func Hora(d domain.SignDecomposition) Projection {
	firstHalf := d.Degree < domain.SignWidth/2
	odd := d.Sign.Number()%2 == 1

	sign := domain.Cancer
	if firstHalf == odd {
		sign = domain.Leo
	}
	return Projection{Division: 2, Sign: sign}
}

// Drekkana is the three-part siblings chart: same sign, +3, +7 for the three thirds.
func Drekkana(d domain.SignDecomposition) Projection {
	third := Slot(d.Degree, 3)
	return Projection{
		Division: 3,
		Sign:     domain.SignFromNumber(d.Sign.Number() + drekkanaOffsets[third]),
	}
}

// Navamsa is the nine-part destiny chart. It also reports which of the nine
// 3°20' parts was hit, 1-based.
func Navamsa(d domain.SignDecomposition) Projection {
	part := Slot(d.Degree, 9)
	return Projection{
		Division: 9,
		Sign:     domain.Sign((9*int(d.Sign) + part) % domain.SignCount),
		Part:     part + 1,
	}
}
