package output

// SeverityPriority defines the ordering priority for diagnostic
// severities. Lower numbers sort first.
var SeverityPriority = map[string]int{
	"error":   1,
	"warning": 2,
}

// GetSeverityPriority returns the priority for a severity. Unknown
// severities sort last.
func GetSeverityPriority(severity string) int {
	if priority, ok := SeverityPriority[severity]; ok {
		return priority
	}
	return len(SeverityPriority) + 1
}
