package quality

import (
	"fmt"
	"strings"
)

// Severity orders diagnostics from informational to serious. None of them stop
// an evaluation pass.
type Severity uint8

const (
	Remark Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Remark:
		return "remark"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", uint8(s))
	}
}

type DiagnosticKind uint8

const (
	// Degenerate: zero-length edges, coincident or collinear corners, zero
	// determinants. The metric is reported as 0.
	Degenerate DiagnosticKind = iota
	// OutOfRange: a ratio outside its nominal range, reported unclamped
	OutOfRange
	// InvertedCorners: one or more negative Jacobian determinants
	InvertedCorners
	// NoElements: the evaluated element list was empty
	NoElements
)

func (k DiagnosticKind) String() string {
	switch k {
	case Degenerate:
		return "degenerate"
	case OutOfRange:
		return "out-of-range"
	case InvertedCorners:
		return "inverted-corners"
	case NoElements:
		return "no-elements"
	default:
		return fmt.Sprintf("DiagnosticKind(%d)", uint8(k))
	}
}

// Diagnostic is a non-fatal finding about one element, or about the whole pass
// when ElementID is NoElementID
type Diagnostic struct {
	ElementID int
	Metric    Metric
	Kind      DiagnosticKind
	Severity  Severity
	Message   string
}

// NoElementID marks a diagnostic that is not tied to an element
const NoElementID = -1

func (d Diagnostic) String() string {
	var sb strings.Builder
	sb.WriteString(d.Severity.String())
	if d.ElementID != NoElementID {
		sb.WriteString(fmt.Sprintf(" element %d", d.ElementID))
	}
	if d.Metric.Valid() {
		sb.WriteString(" " + d.Metric.String())
	}
	sb.WriteString(fmt.Sprintf(" [%s]: %s", d.Kind, d.Message))
	return sb.String()
}

// Diagnostics is a list of findings in the order they were produced
type Diagnostics []Diagnostic

// Max returns the highest severity in the list and false if the list is empty
func (ds Diagnostics) Max() (Severity, bool) {
	if len(ds) == 0 {
		return Remark, false
	}
	max := Remark
	for _, d := range ds {
		if d.Severity > max {
			max = d.Severity
		}
	}
	return max, true
}

// Has reports whether any diagnostic is of the given kind
func (ds Diagnostics) Has(kind DiagnosticKind) bool {
	for _, d := range ds {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// Filter returns the diagnostics at or above the given severity
func (ds Diagnostics) Filter(min Severity) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity >= min {
			out = append(out, d)
		}
	}
	return out
}

func newDiagnostic(id int, m Metric, kind DiagnosticKind, sev Severity, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		ElementID: id,
		Metric:    m,
		Kind:      kind,
		Severity:  sev,
		Message:   fmt.Sprintf(format, args...),
	}
}
