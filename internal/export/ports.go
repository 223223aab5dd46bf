// Package export selects, projects and renders transaction sets into
// downloadable report artifacts. Rendering itself happens behind the
// Renderer port; this package owns filtering, field projection, the
// in-report summary block and the primary/fallback renderer strategy.
package export

import (
	"context"
	"time"

	"trackmyfin/internal/core"
)

// Document is the renderer-agnostic shape of one report: prologue,
// summary block, header row and data rows. Renderers only format it.
type Document struct {
	Title       string
	GeneratedAt time.Time
	DateFrom    string // formatted bound, empty when unrestricted
	DateTo      string
	Summary     Summary
	Advisory    string // e.g. the no-income note, empty when not applicable
	Headers     []string
	Rows        [][]string
}

// Summary holds the totals shown inside the exported artifact, computed
// over the filtered set, not the full set.
type Summary struct {
	TotalIncome   core.Money
	TotalExpenses core.Money
	NetBalance    core.Money
	Symbol        string
}

// Renderer is an outbound port: it turns a Document into artifact bytes.
type Renderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
	Extension() string
	ContentType() string
}
