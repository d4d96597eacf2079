package lint_test

import (
	"fmt"
	"io/fs"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-doclint/internal/lint"
	"github.com/goliatone/go-doclint/internal/mdast"
)

func TestFileSystemErrorCategories(t *testing.T) {
	missing := lint.FileSystemError("pages", &fs.PathError{Op: "open", Path: "pages", Err: fs.ErrNotExist})
	if !goerrors.IsCategory(missing, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category, got %v", missing)
	}
	if !lint.IsFileSystemError(missing) {
		t.Fatalf("expected filesystem text code")
	}

	denied := lint.FileSystemError("pages/a.mdx", fs.ErrPermission)
	if !goerrors.IsCategory(denied, goerrors.CategoryInternal) {
		t.Fatalf("expected internal category, got %v", denied)
	}
	if lint.FileSystemError("x", nil) != nil {
		t.Fatalf("expected nil passthrough")
	}
}

func TestRecordForParseError(t *testing.T) {
	cause := &mdast.ParseError{Line: 3, Column: 1, Source: "mdx", Reason: "Expected a closing tag for `<Tabs>` before the end of the document"}
	record := lint.RecordForError("pages/a.mdx", lint.ParseFailure("pages/a.mdx", cause))

	if record.File != "pages/a.mdx" || record.Error.Kind != lint.KindParse {
		t.Fatalf("unexpected record %+v", record)
	}
	if record.Error.Line != 3 || record.Error.Column != 1 || record.Error.Message != cause.Reason {
		t.Fatalf("expected parse position and reason, got %+v", record.Error)
	}
	if !record.IsError() {
		t.Fatalf("expected error severity")
	}
}

func TestRecordForFileSystemError(t *testing.T) {
	err := lint.FileSystemError("pages/a.mdx", fmt.Errorf("open pages/a.mdx: %w", fs.ErrPermission))
	record := lint.RecordForError("pages/a.mdx", err)

	if record.Error.Kind != lint.KindFileSystem {
		t.Fatalf("expected filesystem kind, got %s", record.Error.Kind)
	}
	want := "cannot read pages/a.mdx: open pages/a.mdx: permission denied"
	if record.Error.Message != want {
		t.Fatalf("unexpected message\nwant: %s\ngot:  %s", want, record.Error.Message)
	}
}

func TestRecordForBareParseError(t *testing.T) {
	cause := &mdast.ParseError{Line: 2, Column: 4, Reason: "Unexpected character"}
	if !lint.IsParseFailure(cause) || !lint.IsParseFailure(lint.ParseFailure("pages/a.mdx", cause)) {
		t.Fatalf("expected parse failures to be recognised")
	}
	if lint.IsParseFailure(lint.FileSystemError("pages/a.mdx", fs.ErrNotExist)) {
		t.Fatalf("expected filesystem error not to be a parse failure")
	}
	if record := lint.RecordForError("pages/a.mdx", cause); record.Error.Kind != lint.KindParse || record.Error.Line != 2 {
		t.Fatalf("unexpected record %+v", record.Error)
	}
}
