// Package diag collects emission diagnostics. Soft failures (an
// expression tree referencing an unbound leaf) land here; invariant
// violations panic instead and never reach a bag.
package diag

import "fmt"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Code classifies a diagnostic.
type Code uint16

const (
	UnknownCode Code = 0

	// Emission diagnostics.
	EmitUnboundLeaf  Code = 1001
	EmitLoopAborted  Code = 1002
	EmitBatchAborted Code = 1003
	EmitKernelFailed Code = 1004

	// Manifest diagnostics.
	ManBadKernel Code = 2001
)

func (c Code) String() string {
	switch c {
	case EmitUnboundLeaf:
		return "E1001"
	case EmitLoopAborted:
		return "E1002"
	case EmitBatchAborted:
		return "E1003"
	case EmitKernelFailed:
		return "E1004"
	case ManBadKernel:
		return "E2001"
	default:
		return fmt.Sprintf("E%04d", uint16(c))
	}
}

// Diagnostic is one reported condition. Subject names the offending
// entity (usually an expression rendered with its identity); Detail
// carries secondary context such as a partial binding.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Subject  string
	Detail   string
}
