package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-doclint/internal/lint"
	"github.com/goliatone/go-doclint/internal/mdast"
)

// SentenceCaseName is the registered name of the heading rule.
const SentenceCaseName = "headings-sentence-case"

const (
	msgFirstWordCapitalized = "First word in heading should be capitalized."
	msgSentenceCase         = "Heading should be in sentence case."
)

// Tokenizer selects how heading text is split into words.
type Tokenizer string

const (
	// TokenizeWhitespace splits on runs of whitespace.
	TokenizeWhitespace Tokenizer = "whitespace"
	// TokenizeLegacy splits on runs of the letter "s", matching the
	// unescaped /s+/ pattern of the original docs linter.
	TokenizeLegacy Tokenizer = "legacy"
)

var separators = map[Tokenizer]*regexp.Regexp{
	TokenizeWhitespace: regexp.MustCompile(`\s+`),
	TokenizeLegacy:     regexp.MustCompile(`s+`),
}

// ParseTokenizer validates a tokenizer name. Empty selects whitespace.
func ParseTokenizer(name string) (Tokenizer, error) {
	switch t := Tokenizer(strings.ToLower(strings.TrimSpace(name))); t {
	case "":
		return TokenizeWhitespace, nil
	case TokenizeWhitespace, TokenizeLegacy:
		return t, nil
	default:
		return "", fmt.Errorf("rules: unknown tokenizer %q", name)
	}
}

// SentenceCaseOptions configures HeadingsSentenceCase.
type SentenceCaseOptions struct {
	Tokenizer Tokenizer
	// Allow extends the built-in list of words that may stay capitalised.
	Allow []string
	// SkipDefaults drops the built-in list so only Allow applies.
	SkipDefaults bool
}

type sentenceCase struct {
	separator *regexp.Regexp
	allowed   wordSet
}

// HeadingsSentenceCase reports headings whose first word is lowercase or
// whose later words are capitalised without being allow-listed.
func HeadingsSentenceCase(opts SentenceCaseOptions) lint.Rule {
	separator, ok := separators[opts.Tokenizer]
	if !ok {
		separator = separators[TokenizeWhitespace]
	}
	defaults := defaultCapitalizedWords
	if opts.SkipDefaults {
		defaults = nil
	}
	return &sentenceCase{
		separator: separator,
		allowed:   newWordSet(defaults, opts.Allow),
	}
}

func (r *sentenceCase) Name() string { return SentenceCaseName }

func (r *sentenceCase) NodeTypes() []mdast.NodeType {
	return []mdast.NodeType{mdast.TypeHeading}
}

func (r *sentenceCase) Summary() string {
	return "headings use sentence case: first word capitalised, the rest lowercase unless allow-listed"
}

type headingWord struct {
	index int
	start int
	text  string
}

type wordIssue struct {
	word    headingWord
	message string
}

func (r *sentenceCase) Check(node *mdast.Node) lint.Result {
	if !node.HasChildren() {
		return lint.Pass
	}
	text := node.FirstChild(mdast.TypeText)
	if text == nil {
		return lint.Pass
	}
	issues := r.scan(text.Value, true)
	if len(issues) == 0 {
		return lint.Pass
	}
	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		messages = append(messages, issue.message)
	}
	return lint.Fail(strings.Join(messages, " "))
}

// Fix rewrites the first letter of each offending word. Text nodes whose
// value does not map 1:1 onto the source (escapes, entities) are left alone.
func (r *sentenceCase) Fix(node *mdast.Node, source []byte) []lint.Edit {
	text := node.FirstChild(mdast.TypeText)
	if text == nil {
		return nil
	}
	start, end := text.Position.Start.Offset, text.Position.End.Offset
	if start < 0 || end > len(source) || start >= end || string(source[start:end]) != text.Value {
		return nil
	}

	var edits []lint.Edit
	for _, issue := range r.scan(text.Value, false) {
		first, size := utf8.DecodeRuneInString(issue.word.text)
		var replacement rune
		if issue.message == msgFirstWordCapitalized {
			replacement = unicode.ToUpper(first)
		} else {
			replacement = unicode.ToLower(first)
		}
		offset := start + issue.word.start
		edits = append(edits, lint.Edit{
			Start: offset,
			End:   offset + size,
			Text:  string(replacement),
		})
	}
	return edits
}

// scan walks the words of value. With stopAtFirst set it returns after the
// first sentence-case issue, otherwise every offending word is reported.
func (r *sentenceCase) scan(value string, stopAtFirst bool) []wordIssue {
	var issues []wordIssue
	for _, word := range r.words(value) {
		if word.text == "" {
			continue
		}
		first, _ := utf8.DecodeRuneInString(word.text)
		if word.index == 0 {
			if unicode.IsLower(first) {
				issues = append(issues, wordIssue{word: word, message: msgFirstWordCapitalized})
			}
			continue
		}
		if unicode.IsUpper(first) && !r.allowed.has(word.text) {
			issues = append(issues, wordIssue{word: word, message: msgSentenceCase})
			if stopAtFirst {
				break
			}
		}
	}
	return issues
}

// words splits value with the configured separator, keeping empty tokens so
// indexes match the positional semantics of a plain string split.
func (r *sentenceCase) words(value string) []headingWord {
	var out []headingWord
	cursor := 0
	add := func(from, to int) {
		token := value[from:to]
		trimmed := strings.TrimLeftFunc(token, isSymbol)
		lead := len(token) - len(trimmed)
		out = append(out, headingWord{
			index: len(out),
			start: from + lead,
			text:  StripSymbols(token),
		})
	}
	for _, loc := range r.separator.FindAllStringIndex(value, -1) {
		add(cursor, loc[0])
		cursor = loc[1]
	}
	add(cursor, len(value))
	return out
}
