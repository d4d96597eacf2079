package lint

// FindingKind classifies where a finding came from.
type FindingKind string

const (
	KindRule       FindingKind = "rule"
	KindParse      FindingKind = "parse"
	KindFileSystem FindingKind = "filesystem"
)

// Finding is the check-result object attached to a record.
type Finding struct {
	Message  string      `json:"message"`
	Severity Severity    `json:"severity"`
	Rule     string      `json:"rule,omitempty"`
	Kind     FindingKind `json:"kind"`
	Line     int         `json:"line,omitempty"`
	Column   int         `json:"column,omitempty"`
}

// Record ties a finding to the file it was produced for.
type Record struct {
	File  string  `json:"file"`
	Error Finding `json:"error"`
	Fixed bool    `json:"fixed,omitempty"`
}

// IsError reports whether the record carries an error-severity finding.
func (r Record) IsError() bool {
	return r.Error.Severity >= SeverityError
}
