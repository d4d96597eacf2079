// Package report joins per-file lint records and renders them.
package report

import (
	"sort"

	"github.com/goliatone/go-doclint/internal/lint"
)

// Record is a single finding tied to a file.
type Record = lint.Record

// Report is the ordered outcome of a lint run.
type Report struct {
	Records []Record
}

// Merge concatenates per-file record slices in the order given. It is the
// single join point of a run; parts are never mutated.
func Merge(parts ...[]Record) Report {
	total := 0
	for _, part := range parts {
		total += len(part)
	}
	records := make([]Record, 0, total)
	for _, part := range parts {
		records = append(records, part...)
	}
	return Report{Records: records}
}

// Sorted returns a copy ordered by file, then position. Records of the same
// location keep their relative order.
func (r Report) Sorted() Report {
	records := append([]Record(nil), r.Records...)
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Error.Line != b.Error.Line {
			return a.Error.Line < b.Error.Line
		}
		return a.Error.Column < b.Error.Column
	})
	return Report{Records: records}
}

// Len returns the number of records.
func (r Report) Len() int {
	return len(r.Records)
}

// Severity returns the highest severity in the report, or zero when empty.
func (r Report) Severity() lint.Severity {
	severities := make([]lint.Severity, len(r.Records))
	for i, record := range r.Records {
		severities[i] = record.Error.Severity
	}
	return lint.MostSevere(severities...)
}

// HasErrors reports whether any record has error severity.
func (r Report) HasErrors() bool {
	return r.Severity() >= lint.SeverityError
}

// Counts summarises a report.
type Counts struct {
	Files    int `json:"files"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Fixed    int `json:"fixed"`
}

// Counts tallies records by severity and distinct file.
func (r Report) Counts() Counts {
	var counts Counts
	files := map[string]struct{}{}
	for _, record := range r.Records {
		files[record.File] = struct{}{}
		switch {
		case record.IsError():
			counts.Errors++
		case record.Error.Severity == lint.SeverityWarning:
			counts.Warnings++
		}
		if record.Fixed {
			counts.Fixed++
		}
	}
	counts.Files = len(files)
	return counts
}
