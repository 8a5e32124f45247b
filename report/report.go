package report

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	json "github.com/json-iterator/go"
	"github.com/notargets/MeshQuality/quality"
)

// ElementRow is the per-element line of a report
type ElementRow struct {
	ID            int     `json:"id"`
	Geometry      string  `json:"geometry"`
	AspectRatio   float64 `json:"aspect_ratio"`
	Skewness      float64 `json:"skewness"`
	JacobianRatio float64 `json:"jacobian_ratio"`
	Band          string  `json:"band,omitempty"`
	Color         string  `json:"color,omitempty"`
}

type Means struct {
	AspectRatio   float64 `json:"aspect_ratio"`
	Skewness      float64 `json:"skewness"`
	JacobianRatio float64 `json:"jacobian_ratio"`
}

type MetricStats struct {
	Metric string  `json:"metric"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

type BandCount struct {
	Band  string `json:"band"`
	Color string `json:"color,omitempty"`
	Count int    `json:"count"`
}

type DiagnosticRow struct {
	ElementID int    `json:"element_id"`
	Metric    string `json:"metric,omitempty"`
	Kind      string `json:"kind"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
}

// Report is the rendered outcome of one evaluation run
type Report struct {
	RunID       string          `json:"run_id"`
	Source      string          `json:"source,omitempty"`
	Metric      string          `json:"metric"`
	Count       int             `json:"count"`
	Aggregate   Means           `json:"aggregate"`
	Summary     []MetricStats   `json:"summary"`
	Bands       []BandCount     `json:"bands,omitempty"`
	Elements    []ElementRow    `json:"elements"`
	Diagnostics []DiagnosticRow `json:"diagnostics,omitempty"`

	precision int
}

// New builds a report from an evaluation result. precision is the number of
// decimals used by WriteText.
func New(runID, source string, res *quality.Result, precision int) *Report {
	r := &Report{
		RunID:     runID,
		Source:    source,
		Metric:    metricName(res.Metric),
		Count:     res.Count(),
		Aggregate: Means(res.Mean),
		Elements:  make([]ElementRow, 0, res.Count()),
		precision: precision,
	}

	for i, q := range res.Qualities {
		row := ElementRow{
			ID:            q.Element.ID(),
			Geometry:      q.Element.Geometry().String(),
			AspectRatio:   q.AspectRatio,
			Skewness:      q.Skewness,
			JacobianRatio: q.JacobianRatio,
		}
		if res.Bands != nil {
			b := res.Bands[i]
			row.Band = b.String()
			if b != quality.BandNone {
				row.Color = hexColor(b.Color())
			}
		}
		r.Elements = append(r.Elements, row)
	}

	s := quality.Summarize(res.Qualities, res.Metric)
	for _, ms := range s.Metrics {
		r.Summary = append(r.Summary, MetricStats{
			Metric: ms.Metric.String(),
			Min:    ms.Min,
			Max:    ms.Max,
			Mean:   ms.Mean,
			StdDev: ms.StdDev,
		})
	}
	if res.Metric.Valid() {
		for _, b := range quality.Bands() {
			bc := BandCount{Band: b.String(), Count: s.Histogram[b]}
			if b != quality.BandNone {
				bc.Color = hexColor(b.Color())
			}
			r.Bands = append(r.Bands, bc)
		}
	}

	for _, d := range res.AllDiagnostics() {
		row := DiagnosticRow{
			ElementID: d.ElementID,
			Kind:      d.Kind.String(),
			Severity:  d.Severity.String(),
			Message:   d.Message,
		}
		if d.Metric.Valid() {
			row.Metric = d.Metric.String()
		}
		r.Diagnostics = append(r.Diagnostics, row)
	}
	return r
}

func metricName(m quality.Metric) string {
	if m.Valid() {
		return m.String()
	}
	return "none"
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Write renders the report as "text" or "json"
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case "json":
		return r.WriteJSON(w)
	case "text", "":
		return r.WriteText(w)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteJSON writes the report as indented JSON
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// WriteText writes a fixed width, human readable report
func (r *Report) WriteText(w io.Writer) error {
	var (
		sb   strings.Builder
		prec = r.precision
		num  = func(v float64) string { return fmt.Sprintf("%*.*f", 14, prec, v) }
	)
	if prec < 0 {
		prec = 3
	}

	sb.WriteString(fmt.Sprintf("Mesh quality run %s\n", r.RunID))
	if r.Source != "" {
		sb.WriteString(fmt.Sprintf("Source:   %s\n", r.Source))
	}
	sb.WriteString(fmt.Sprintf("Elements: %d\n", r.Count))
	sb.WriteString(fmt.Sprintf("Colored by: %s\n\n", r.Metric))

	sb.WriteString(fmt.Sprintf("%-14s%14s%14s%14s\n", "Mean", "AspectRatio", "Skewness", "JacobianRatio"))
	sb.WriteString(fmt.Sprintf("%-14s%s%s%s\n\n", "",
		num(r.Aggregate.AspectRatio), num(r.Aggregate.Skewness), num(r.Aggregate.JacobianRatio)))

	if r.Count > 0 {
		sb.WriteString(fmt.Sprintf("%-14s%14s%14s%14s%14s\n", "Metric", "Min", "Max", "Mean", "StdDev"))
		for _, ms := range r.Summary {
			sb.WriteString(fmt.Sprintf("%-14s%s%s%s%s\n", ms.Metric,
				num(ms.Min), num(ms.Max), num(ms.Mean), num(ms.StdDev)))
		}
		sb.WriteString("\n")
	}

	if len(r.Bands) > 0 {
		sb.WriteString(fmt.Sprintf("%-14s%8s  %s\n", "Band", "Count", "Color"))
		for _, bc := range r.Bands {
			sb.WriteString(fmt.Sprintf("%-14s%8d  %s\n", bc.Band, bc.Count, bc.Color))
		}
		sb.WriteString("\n")
	}

	if len(r.Elements) > 0 {
		sb.WriteString(fmt.Sprintf("%8s %-6s%14s%14s%14s  %s\n",
			"ID", "Type", "AspectRatio", "Skewness", "JacobianRatio", "Band"))
		for _, e := range r.Elements {
			sb.WriteString(fmt.Sprintf("%8d %-6s%s%s%s  %s\n", e.ID, e.Geometry,
				num(e.AspectRatio), num(e.Skewness), num(e.JacobianRatio), e.Band))
		}
	}

	if len(r.Diagnostics) > 0 {
		sb.WriteString(fmt.Sprintf("\nDiagnostics (%d)\n", len(r.Diagnostics)))
		for _, d := range r.Diagnostics {
			sb.WriteString("  ")
			sb.WriteString(d.String())
			sb.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (d DiagnosticRow) String() string {
	var sb strings.Builder
	sb.WriteString(d.Severity)
	if d.ElementID != quality.NoElementID {
		sb.WriteString(fmt.Sprintf(" element %d", d.ElementID))
	}
	if d.Metric != "" {
		sb.WriteString(" " + d.Metric)
	}
	sb.WriteString(fmt.Sprintf(" [%s]: %s", d.Kind, d.Message))
	return sb.String()
}
