package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeValidation = "DOCLINT_COMMAND_VALIDATION_FAILED"
	TextCodeCanceled   = "DOCLINT_COMMAND_CANCELED"
	TextCodeTimeout    = "DOCLINT_COMMAND_TIMEOUT"
	TextCodeContext    = "DOCLINT_COMMAND_CONTEXT_ERROR"
	TextCodeFailed     = "DOCLINT_COMMAND_FAILED"
)

// tag wraps err unless it already carries a go-errors category, so codes
// set deeper in the stack (filesystem, parse, violations) survive.
func tag(err error, category goerrors.Category, message, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, message).WithTextCode(code)
}

func wrapValidationError(err error) error {
	return tag(err, goerrors.CategoryValidation, "command validation failed", TextCodeValidation)
}

func wrapContextError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return tag(err, goerrors.CategoryCommand, "command execution cancelled", TextCodeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return tag(err, goerrors.CategoryCommand, "command execution deadline exceeded", TextCodeTimeout)
	default:
		return tag(err, goerrors.CategoryCommand, "command context error", TextCodeContext)
	}
}

func wrapExecuteError(err error) error {
	return tag(err, goerrors.CategoryCommand, "command execution failed", TextCodeFailed)
}
