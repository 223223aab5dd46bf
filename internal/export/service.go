package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"trackmyfin/internal/core"
)

const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
	FormatCSV  = "csv"
)

// filenamePrefix is the fixed product prefix of every export artifact.
const filenamePrefix = "TrackMyFin_Transactions"

var (
	ErrUnknownFormat = errors.New("unknown export format")
	ErrRenderFailed  = errors.New("render failed")
)

// Request describes one export: what to include, which columns, and the
// artifact format.
type Request struct {
	Title  string         `json:"title"`
	Format string         `json:"format"`
	Filter FilterSpec     `json:"filter"`
	Fields FieldSelection `json:"fields"`
}

// Artifact is a rendered report ready to stream or write to disk.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Exporter runs the filter/project/render pipeline. Rendering is a
// two-tier strategy: the renderer registered for the requested format is
// tried first; on failure the simplified fallback renderer is attempted
// once. Only when both fail does Export return an error.
type Exporter struct {
	renderers map[string]Renderer
	fallback  Renderer
	symbol    string
	now       func() time.Time
}

func NewExporter(symbol string, renderers map[string]Renderer, fallback Renderer) *Exporter {
	return &Exporter{
		renderers: renderers,
		fallback:  fallback,
		symbol:    symbol,
		now:       time.Now,
	}
}

// Count reports how many records the request's filter selects, after the
// salary merge. Zero is a valid answer; callers use it to disable the
// export action upstream.
func (e *Exporter) Count(transactions []core.Transaction, salaries []core.Salary, spec FilterSpec) int {
	return len(Apply(MergeSalariesAsIncome(transactions, salaries), spec))
}

// BuildDocument assembles the renderer-agnostic document for a request:
// salary merge, filtering, summary over the filtered set, field
// projection.
func (e *Exporter) BuildDocument(transactions []core.Transaction, salaries []core.Salary, req Request) Document {
	filtered := Apply(MergeSalariesAsIncome(transactions, salaries), req.Filter)
	summary := Summarize(filtered, e.symbol)

	title := req.Title
	if title == "" {
		title = "TrackMyFin - Transaction Report"
	}

	doc := Document{
		Title:       title,
		GeneratedAt: e.now(),
		Summary:     summary,
		Headers:     req.Fields.Columns(),
		Rows:        ProjectRows(filtered, req.Fields, e.symbol),
	}
	if req.Filter.DateFrom != nil {
		doc.DateFrom = req.Filter.DateFrom.Format("2006-01-02")
	}
	if req.Filter.DateTo != nil {
		doc.DateTo = req.Filter.DateTo.Format("2006-01-02")
	}
	// A report full of expenses with no income reads like a bug to users;
	// flag the state explicitly inside the artifact.
	if summary.TotalIncome.Cents == 0 && summary.TotalExpenses.Cents > 0 {
		doc.Advisory = "NOTE: No income transactions found in the selected data."
	}
	return doc
}

// Export renders the request into an artifact. The primary renderer's
// failure is recovered through the fallback; a fallback failure is
// surfaced, never swallowed.
func (e *Exporter) Export(ctx context.Context, transactions []core.Transaction, salaries []core.Salary, req Request) (Artifact, error) {
	r, ok := e.renderers[req.Format]
	if !ok {
		return Artifact{}, fmt.Errorf("%w: %q", ErrUnknownFormat, req.Format)
	}

	doc := e.BuildDocument(transactions, salaries, req)

	data, err := r.Render(ctx, doc)
	if err != nil {
		if e.fallback == nil {
			return Artifact{}, fmt.Errorf("%w: %s: %v", ErrRenderFailed, req.Format, err)
		}
		slog.WarnContext(ctx, "primary renderer failed, using simplified fallback",
			"format", req.Format, "error", err)
		r = e.fallback
		data, err = r.Render(ctx, doc)
		if err != nil {
			return Artifact{}, fmt.Errorf("%w: fallback: %v", ErrRenderFailed, err)
		}
	}

	return Artifact{
		Filename:    e.filename(req.Filter, r.Extension()),
		ContentType: r.ContentType(),
		Data:        data,
	}, nil
}

// filename builds the deterministic artifact name: the product prefix plus
// either the filter's date range or the current date when no range was
// given.
func (e *Exporter) filename(spec FilterSpec, ext string) string {
	if spec.DateFrom != nil && spec.DateTo != nil {
		return fmt.Sprintf("%s_%s_to_%s.%s",
			filenamePrefix,
			spec.DateFrom.Format("2006-01-02"),
			spec.DateTo.Format("2006-01-02"),
			ext)
	}
	return fmt.Sprintf("%s_%s.%s", filenamePrefix, e.now().Format("2006-01-02"), ext)
}
