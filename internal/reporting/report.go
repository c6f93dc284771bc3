package reporting

// SadeSatiDoc is the JSON document for a Sade Sati computation.
// Field names are stable; nil values encode as null.
type SadeSatiDoc struct {
	WindowID string `json:"window_id,omitempty"`

	NatalMoonSign      *string `json:"natal_moon_sign"`
	NatalMoonSignIndex *int    `json:"natal_moon_sign_index"`

	CurrentPhase         string   `json:"current_phase"`
	PhaseLabel           string   `json:"phase_label"`
	PhaseDescription     string   `json:"phase_description"`
	CompletionPercentage *float64 `json:"completion_percentage"`
	TotalDuration        string   `json:"total_duration"`

	Phase1Start *string `json:"phase1_start"`
	Phase2Start *string `json:"phase2_start"`
	Phase3Start *string `json:"phase3_start"`
	EndDate     *string `json:"end_date"`

	SaturnCurrentSign *string `json:"saturn_current_sign"`
	SaturnSignIndex   *int    `json:"saturn_sign_index"`

	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

// DivisionalDoc is the JSON document for a divisional chart computation.
type DivisionalDoc struct {
	ChartID string             `json:"chart_id"`
	Moment  string             `json:"moment"`
	Bodies  map[string]BodyDoc `json:"bodies"`
	Status  string             `json:"status"`
	Error   string             `json:"error,omitempty"`
	Kind    string             `json:"kind,omitempty"`
}

// BodyDoc is one body's entry in a DivisionalDoc. Only the requested
// divisions are set.
type BodyDoc struct {
	SignNumber int     `json:"sign_number"`
	Degree     float64 `json:"degree"`
	SignName   string  `json:"sign_name"`

	D2  *PlacementDoc `json:"d2,omitempty"`
	D3  *PlacementDoc `json:"d3,omitempty"`
	D4  *PlacementDoc `json:"d4,omitempty"`
	D5  *PlacementDoc `json:"d5,omitempty"`
	D6  *PlacementDoc `json:"d6,omitempty"`
	D7  *PlacementDoc `json:"d7,omitempty"`
	D8  *PlacementDoc `json:"d8,omitempty"`
	D9  *PlacementDoc `json:"d9,omitempty"`
	D10 *PlacementDoc `json:"d10,omitempty"`
	D12 *PlacementDoc `json:"d12,omitempty"`
	D16 *PlacementDoc `json:"d16,omitempty"`
	D20 *PlacementDoc `json:"d20,omitempty"`
	D24 *PlacementDoc `json:"d24,omitempty"`
	D30 *PlacementDoc `json:"d30,omitempty"`

	Error string `json:"error,omitempty"`
}

// PlacementDoc is a body's sign in one division. Part is set for D9 only.
type PlacementDoc struct {
	SignNumber int    `json:"sign_number"`
	SignName   string `json:"sign_name"`
	Part       int    `json:"part,omitempty"`
}

// ErrorDoc is emitted when a request is rejected before any computation.
type ErrorDoc struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// Division returns the placement for division n, or nil.
func (b *BodyDoc) Division(n int) *PlacementDoc {
	if f := b.field(n); f != nil {
		return *f
	}
	return nil
}

func (b *BodyDoc) setDivision(n int, p *PlacementDoc) {
	if f := b.field(n); f != nil {
		*f = p
	}
}

func (b *BodyDoc) field(n int) **PlacementDoc {
	switch n {
	case 2:
		return &b.D2
	case 3:
		return &b.D3
	case 4:
		return &b.D4
	case 5:
		return &b.D5
	case 6:
		return &b.D6
	case 7:
		return &b.D7
	case 8:
		return &b.D8
	case 9:
		return &b.D9
	case 10:
		return &b.D10
	case 12:
		return &b.D12
	case 16:
		return &b.D16
	case 20:
		return &b.D20
	case 24:
		return &b.D24
	case 30:
		return &b.D30
	default:
		return nil
	}
}
