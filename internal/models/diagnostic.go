package models

import "fmt"

// Severity of a diagnostic surfaced to the user.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is a (severity, message) pair produced by a stage. The core
// only collects them; the caller decides how to show them.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Stage    string   `json:"stage"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s] %s", d.Severity, d.Stage, d.Message)
}

// Diagnostics accumulates diagnostics in emission order.
type Diagnostics []Diagnostic

func (ds *Diagnostics) Warn(stage, format string, args ...interface{}) {
	*ds = append(*ds, Diagnostic{Severity: SeverityWarning, Stage: stage, Message: fmt.Sprintf(format, args...)})
}

func (ds *Diagnostics) Error(stage, format string, args ...interface{}) {
	*ds = append(*ds, Diagnostic{Severity: SeverityError, Stage: stage, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any diagnostic has error severity.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
