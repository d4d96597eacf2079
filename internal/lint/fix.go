package lint

import (
	"errors"
	"fmt"
	"sort"
)

// ErrEditOutOfRange rejects edits that fall outside the source.
var ErrEditOutOfRange = errors.New("lint: edit out of range")

// Edit replaces source[Start:End] with Text.
type Edit struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
	Rule  string `json:"rule,omitempty"`
	Line  int    `json:"line,omitempty"`
}

// ApplyEdits returns a copy of source with edits applied. Edits overlapping
// an earlier one are skipped; the applied edits are returned alongside the
// new source.
func ApplyEdits(source []byte, edits []Edit) ([]byte, []Edit, error) {
	if len(edits) == 0 {
		return source, nil, nil
	}
	ordered := append([]Edit(nil), edits...)
	sortEdits(ordered)

	out := make([]byte, 0, len(source))
	applied := make([]Edit, 0, len(ordered))
	cursor := 0
	for _, edit := range ordered {
		if edit.Start < 0 || edit.End < edit.Start || edit.End > len(source) {
			return nil, nil, fmt.Errorf("%w: [%d,%d) of %d bytes", ErrEditOutOfRange, edit.Start, edit.End, len(source))
		}
		if edit.Start < cursor {
			continue
		}
		out = append(out, source[cursor:edit.Start]...)
		out = append(out, edit.Text...)
		cursor = edit.End
		applied = append(applied, edit)
	}
	out = append(out, source[cursor:]...)
	return out, applied, nil
}

func sortEdits(edits []Edit) {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Start != edits[j].Start {
			return edits[i].Start < edits[j].Start
		}
		return edits[i].End < edits[j].End
	})
}
