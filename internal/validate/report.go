package validate

import (
	"strings"

	"github.com/temirov/argsmith/internal/resolve"
)

const (
	reportHeader     = "argument validation errors:"
	reportLinePrefix = "\n  - "
)

// Kind classifies a report entry.
type Kind int

const (
	KindTypeMismatch Kind = iota
	KindMissingRequired
	KindValidatorFailure
)

// String returns the name of the kind.
func (kind Kind) String() string {
	switch kind {
	case KindTypeMismatch:
		return "type-mismatch"
	case KindMissingRequired:
		return "missing-required"
	case KindValidatorFailure:
		return "validator-failure"
	default:
		return "unknown"
	}
}

// Entry is one problem found for one argument.
type Entry struct {
	ArgumentName string
	Kind         Kind
	Message      string
}

// Report collects every problem found in one parse, in definition order.
// Arguments carries the resolved state for diagnostics.
type Report struct {
	Entries   []Entry
	Arguments []resolve.ResolvedArgument
}

// Empty reports whether validation succeeded.
func (report Report) Empty() bool {
	return len(report.Entries) == 0
}

// Err returns the report as an error, or nil when it is empty.
func (report Report) Err() error {
	if report.Empty() {
		return nil
	}
	return report
}

// Messages returns the entry messages in order.
func (report Report) Messages() []string {
	messages := make([]string, 0, len(report.Entries))
	for _, entry := range report.Entries {
		messages = append(messages, entry.Message)
	}
	return messages
}

func (report Report) Error() string {
	var builder strings.Builder
	builder.WriteString(reportHeader)
	for _, entry := range report.Entries {
		builder.WriteString(reportLinePrefix)
		builder.WriteString(entry.Message)
	}
	return builder.String()
}

func (report *Report) add(argumentName string, kind Kind, message string) {
	report.Entries = append(report.Entries, Entry{ArgumentName: argumentName, Kind: kind, Message: message})
}
