package domain

// Sign is a zodiac sign index in [0, 11]. Aries is 0.
// Divisional formulas use the 1-based Number().
type Sign int

const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

// SignCount is the number of signs in the zodiac.
const SignCount = 12

// SignWidth is the angular width of one sign in degrees.
const SignWidth = 30.0

var signNames = [SignCount]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// Name returns the canonical sign name, or "Unknown" for an out-of-range index.
func (s Sign) Name() string {
	if !s.IsValid() {
		return "Unknown"
	}
	return signNames[s]
}

// String implements fmt.Stringer.
func (s Sign) String() string {
	return s.Name()
}

// Number returns the 1-based sign number (Aries = 1, Pisces = 12).
func (s Sign) Number() int {
	return int(s) + 1
}

// IsValid reports whether the index is within [0, 11].
func (s Sign) IsValid() bool {
	return s >= 0 && s < SignCount
}

// Offset returns the sign k places ahead (negative k moves backwards), wrapping mod 12.
func (s Sign) Offset(k int) Sign {
	v := (int(s) + k) % SignCount
	if v < 0 {
		v += SignCount
	}
	return Sign(v)
}

// SignFromNumber converts a 1-based sign number to a Sign, wrapping mod 12 (0 becomes Pisces).
func SignFromNumber(n int) Sign {
	return Sign(0).Offset(n - 1)
}

// SignDecomposition splits a normalized longitude into sign and in-sign degree.
// It is recomputed on demand and never cached.
type SignDecomposition struct {
	Sign   Sign
	Degree float64 // degree within sign, in [0, 30)
}
