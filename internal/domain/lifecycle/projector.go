// Package lifecycle derives the UI-facing view of a quotation from its two
// persisted axes (estado and workflow). The view is never persisted.
package lifecycle

import (
	"strings"

	"cotizaciones/internal/domain/entities"
)

// Bucket is the mutually exclusive filter category of a quotation.
type Bucket string

const (
	BucketWon        Bucket = "Won"
	BucketLost       Bucket = "Lost"
	BucketQuoted     Bucket = "Quoted"
	BucketReopened   Bucket = "Reopened"
	BucketUnreviewed Bucket = "Unreviewed"
)

// Buckets lists every bucket in display order.
var Buckets = []Bucket{BucketUnreviewed, BucketReopened, BucketQuoted, BucketWon, BucketLost}

// ParseBucket resolves a case-insensitive bucket name.
func ParseBucket(s string) (Bucket, bool) {
	for _, b := range Buckets {
		if strings.EqualFold(string(b), strings.TrimSpace(s)) {
			return b, true
		}
	}
	return "", false
}

// Pending reports whether the bucket belongs to the aggregated pending view.
func (b Bucket) Pending() bool {
	return b == BucketReopened || b == BucketUnreviewed
}

type ColorTag string

const (
	ColorGreen  ColorTag = "green"
	ColorRed    ColorTag = "red"
	ColorBlue   ColorTag = "blue"
	ColorLime   ColorTag = "lime"
	ColorYellow ColorTag = "yellow"
	ColorAmber  ColorTag = "amber"
)

// View is the derived lifecycle projection.
type View struct {
	Progress    int      `json:"progress"`
	ColorTag    ColorTag `json:"colorTag"`
	Bucket      Bucket   `json:"bucket"`
	HidePending bool     `json:"hidePending"`
}

// Project maps raw estado/workflow values to a View. Inputs are matched
// case-insensitively and the first matching rule wins.
func Project(estado, workflow string) View {
	e := strings.ToLower(strings.TrimSpace(estado))
	w := strings.ToLower(strings.TrimSpace(workflow))

	won := e == string(entities.EstadoGanada)
	lost := e == string(entities.EstadoPerdida)

	var v View
	switch {
	case won:
		v.Progress, v.ColorTag = 100, ColorGreen
	case lost:
		v.Progress, v.ColorTag = 100, ColorRed
	case w == string(entities.WorkflowCotizado):
		v.Progress, v.ColorTag = 80, ColorBlue
	case w == string(entities.WorkflowEsperaCliente):
		v.Progress, v.ColorTag = 60, ColorLime
	case w == string(entities.WorkflowConsultando):
		v.Progress, v.ColorTag = 40, ColorYellow
	case w == string(entities.WorkflowEnRevision):
		v.Progress, v.ColorTag = 20, ColorAmber
	default:
		v.Progress, v.ColorTag = 0, ColorAmber
	}

	switch {
	case won:
		v.Bucket = BucketWon
	case lost:
		v.Bucket = BucketLost
	case w == string(entities.WorkflowCotizado):
		v.Bucket = BucketQuoted
	case e == string(entities.EstadoReabierta):
		v.Bucket = BucketReopened
	default:
		v.Bucket = BucketUnreviewed
	}

	v.HidePending = v.Progress == 100
	return v
}

// ProjectQuotation projects a stored quotation.
func ProjectQuotation(q entities.Quotation) View {
	return Project(string(q.Estado), string(q.Workflow))
}
