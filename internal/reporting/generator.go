package reporting

import (
	"time"

	"gonum.org/v1/gonum/floats/scalar"

	"jyotish-lab/internal/chart"
	"jyotish-lab/internal/divisional"
	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/sadesati"
)

// Result statuses shared by both documents.
const (
	StatusOK      = "ok"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// degreePrecision is the number of decimals kept for in-sign degrees.
const degreePrecision = 4

// SadeSatiJSON builds the document for a Sade Sati result.
func SadeSatiJSON(r sadesati.Result) SadeSatiDoc {
	doc := SadeSatiDoc{
		WindowID:             r.WindowID,
		CurrentPhase:         string(r.Phase),
		PhaseLabel:           r.PhaseLabel,
		PhaseDescription:     r.PhaseDescription,
		CompletionPercentage: r.Percentage,
		TotalDuration:        r.TotalDuration,
		Phase1Start:          dateOrNil(r.Window.Phase1Start),
		Phase2Start:          dateOrNil(r.Window.Phase2Start),
		Phase3Start:          dateOrNil(r.Window.Phase3Start),
		EndDate:              dateOrNil(r.Window.End),
		Status:               string(r.Status),
	}

	if r.NatalResolved {
		doc.NatalMoonSign = ptr(r.NatalSign.Name())
		doc.NatalMoonSignIndex = ptr(int(r.NatalSign))
	}
	if r.PresentResolved {
		doc.SaturnCurrentSign = ptr(r.PresentSign.Name())
		doc.SaturnSignIndex = ptr(int(r.PresentSign))
	}
	if r.Err != nil {
		doc.Error = r.Err.Error()
		doc.Kind = string(domain.KindOf(r.Err))
	}
	return doc
}

// DivisionalJSON builds the document for an assembled chart set, listing only
// the requested divisions. Divisions without a JSON field (D1) are ignored.
func DivisionalJSON(set chart.Set, divisions []int) DivisionalDoc {
	doc := DivisionalDoc{
		ChartID: set.ChartID,
		Moment:  set.Moment.UTC().Format(time.RFC3339),
		Bodies:  make(map[string]BodyDoc, len(set.Charts)),
		Status:  StatusOK,
	}

	failed := set.Failed()
	switch {
	case len(set.Bodies) > 0 && len(failed) == len(set.Bodies):
		doc.Status = StatusFailed
	case len(failed) > 0:
		doc.Status = StatusPartial
	}
	if len(failed) > 0 {
		err := set.Charts[failed[0]].Err
		doc.Error = err.Error()
		doc.Kind = string(domain.KindOf(err))
	}

	for _, body := range set.Bodies {
		doc.Bodies[body.String()] = bodyDoc(set.Charts[body], divisions)
	}
	return doc
}

func bodyDoc(c chart.BodyChart, divisions []int) BodyDoc {
	if c.Err != nil {
		return BodyDoc{Error: c.Err.Error()}
	}

	b := BodyDoc{
		SignNumber: c.Decomposition.Sign.Number(),
		Degree:     scalar.Round(c.Decomposition.Degree, degreePrecision),
		SignName:   c.Decomposition.Sign.Name(),
	}
	for _, n := range divisions {
		p, err := c.Projection(n)
		if err != nil {
			continue
		}
		b.setDivision(n, placementDoc(p))
	}
	return b
}

func placementDoc(p divisional.Projection) *PlacementDoc {
	return &PlacementDoc{
		SignNumber: p.Sign.Number(),
		SignName:   p.Sign.Name(),
		Part:       p.Part,
	}
}

// ErrorJSON builds the document for a rejected request.
func ErrorJSON(err error) ErrorDoc {
	return ErrorDoc{Error: err.Error(), Kind: string(domain.KindOf(err))}
}

func dateOrNil(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return ptr(t.Format(time.DateOnly))
}

func ptr[T any](v T) *T {
	return &v
}
