package domain

import "fmt"

// ValidationResult is the uniform contract of every validation rule. Errors
// block the operation, warnings do not. Callers must not rely on the order of
// the messages, only on membership.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func OKResult() ValidationResult {
	return ValidationResult{IsValid: true}
}

func (r *ValidationResult) AddError(format string, args ...any) {
	r.IsValid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) AddWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Merge folds another result into this one, prefixing its messages.
func (r *ValidationResult) Merge(prefix string, other ValidationResult) {
	for _, e := range other.Errors {
		r.AddError("%s%s", prefix, e)
	}
	for _, w := range other.Warnings {
		r.AddWarning("%s%s", prefix, w)
	}
}
