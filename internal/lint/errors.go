package lint

import (
	"errors"
	"io/fs"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-doclint/internal/mdast"
)

const (
	TextCodeFileSystem = "DOCLINT_FILESYSTEM_ERROR"
	TextCodeParse      = "DOCLINT_PARSE_ERROR"
)

// FileSystemError wraps a failure to list or read path.
func FileSystemError(path string, err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	category := goerrors.CategoryInternal
	if errors.Is(err, fs.ErrNotExist) {
		category = goerrors.CategoryNotFound
	}
	return goerrors.Wrap(err, category, "cannot read "+path).
		WithTextCode(TextCodeFileSystem).
		WithMetadata(map[string]any{"path": path})
}

// ParseFailure wraps a document that could not be parsed.
func ParseFailure(path string, err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "cannot parse "+path).
		WithTextCode(TextCodeParse).
		WithMetadata(map[string]any{"path": path})
}

// IsFileSystemError reports whether err was produced by FileSystemError.
func IsFileSystemError(err error) bool {
	return hasTextCode(err, TextCodeFileSystem)
}

// IsParseFailure reports whether err was produced by ParseFailure or carries
// a parser error.
func IsParseFailure(err error) bool {
	var parseErr *mdast.ParseError
	return hasTextCode(err, TextCodeParse) || errors.As(err, &parseErr)
}

// RecordForError turns a per-file failure into an error-severity record so a
// single bad file never aborts a run.
func RecordForError(path string, err error) Record {
	finding := Finding{
		Severity: SeverityError,
		Kind:     KindFileSystem,
		Message:  err.Error(),
	}

	var wrapped *goerrors.Error
	if errors.As(err, &wrapped) {
		finding.Message = wrapped.Message
		if wrapped.Source != nil {
			finding.Message += ": " + wrapped.Source.Error()
		}
	}
	if IsParseFailure(err) {
		finding.Kind = KindParse
	}

	var parseErr *mdast.ParseError
	if errors.As(err, &parseErr) {
		finding.Kind = KindParse
		finding.Message = parseErr.Reason
		finding.Line = parseErr.Line
		finding.Column = parseErr.Column
	}

	return Record{File: path, Error: finding}
}

func hasTextCode(err error, code string) bool {
	var wrapped *goerrors.Error
	return errors.As(err, &wrapped) && wrapped.TextCode == code
}
