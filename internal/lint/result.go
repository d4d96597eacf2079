package lint

// Result is the outcome of checking one node. It is either Success or a
// Violation; there are no other implementations.
type Result interface {
	isResult()
}

// Success means the node satisfied the rule.
type Success struct{}

// Violation describes why a node failed a rule.
type Violation struct {
	Message  string
	Severity Severity
}

func (Success) isResult()   {}
func (Violation) isResult() {}

// Pass is the shared Success value.
var Pass Result = Success{}

// Fail builds an error-severity Violation.
func Fail(message string) Result {
	return Violation{Message: message, Severity: SeverityError}
}

// Warn builds a warning-severity Violation.
func Warn(message string) Result {
	return Violation{Message: message, Severity: SeverityWarning}
}

// IsSuccess reports whether r is a Success. A nil Result counts as success.
func IsSuccess(r Result) bool {
	switch r.(type) {
	case nil, Success, *Success:
		return true
	default:
		return false
	}
}

// AsViolation returns the violation carried by r.
func AsViolation(r Result) (Violation, bool) {
	switch v := r.(type) {
	case Violation:
		return v, true
	case *Violation:
		if v != nil {
			return *v, true
		}
	}
	return Violation{}, false
}
