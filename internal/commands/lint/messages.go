package lintcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-doclint/internal/report"
)

const (
	lintDirectoryMessageType = "doclint.lint.directory"
	listRulesMessageType     = "doclint.rules.list"
)

// LintDirectoryCommand lints every matching document below Directory and
// renders the report.
type LintDirectoryCommand struct {
	// Directory is the content root to walk.
	Directory string `json:"directory"`
	// Format selects the report renderer ("json" or "text").
	Format string `json:"format,omitempty"`
	// FailOnError turns error-severity records into a command failure.
	FailOnError bool `json:"fail_on_error,omitempty"`
	// Trigger names what started the run ("cli", "watch").
	Trigger string `json:"trigger,omitempty"`
	// Changed lists the files that triggered a watch run.
	Changed []string `json:"changed,omitempty"`
}

// Type implements command.Message.
func (LintDirectoryCommand) Type() string { return lintDirectoryMessageType }

// Validate ensures the directory is set and the format is known.
func (cmd LintDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("doclint.lint.directory_required", "directory is required")
			}
			return nil
		})),
		validation.Field(&cmd.Format, validation.By(formatRule)),
	)
}

// ListRulesCommand prints the registered rules.
type ListRulesCommand struct {
	Format string `json:"format,omitempty"`
}

// Type implements command.Message.
func (ListRulesCommand) Type() string { return listRulesMessageType }

// Validate ensures the format is known.
func (cmd ListRulesCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Format, validation.By(formatRule)),
	)
}

func formatRule(value any) error {
	format, _ := value.(string)
	if !report.SupportedFormat(format) {
		return validation.NewError("doclint.format_invalid", "format must be json or text")
	}
	return nil
}
