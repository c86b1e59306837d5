package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...][2]string{
	SevInfo:    {"INFO", "info"},
	SevWarning: {"WARNING", "warning"},
	SevError:   {"ERROR", "error"},
}

// String is the upper-case form used by pretty output.
func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s][0]
	}
	return "UNKNOWN"
}

// Label is the lower-case form used by short output and symbol dumps.
func (s Severity) Label() string {
	if int(s) < len(severityNames) {
		return severityNames[s][1]
	}
	return "unknown"
}
