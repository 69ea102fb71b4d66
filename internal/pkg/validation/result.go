// Package validation holds the result type shared by every business validator.
// Validators never fail with an error: they collect messages into a Result.
package validation

import "strings"

// Result is the outcome of a validation pass.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings,omitempty"`
}

func Success() Result {
	return Result{Valid: true, Errors: []string{}}
}

func Failure(errs ...string) Result {
	if len(errs) == 0 {
		errs = []string{"validation failed"}
	}
	out := make([]string, len(errs))
	copy(out, errs)
	return Result{Valid: false, Errors: out}
}

// Combine concatenates errors and warnings and ANDs validity.
func (r Result) Combine(others ...Result) Result {
	out := Result{
		Valid:  r.Valid,
		Errors: append([]string{}, r.Errors...),
	}
	out.Warnings = append(out.Warnings, r.Warnings...)
	for _, o := range others {
		out.Valid = out.Valid && o.Valid
		out.Errors = append(out.Errors, o.Errors...)
		out.Warnings = append(out.Warnings, o.Warnings...)
	}
	return out
}

// WithWarning returns a copy of r carrying an extra warning. Warnings never affect validity.
func (r Result) WithWarning(msg string) Result {
	out := r.Combine()
	out.Warnings = append(out.Warnings, msg)
	return out
}

// Message joins the error messages, handy for logs and error-flag fields.
func (r Result) Message() string {
	return strings.Join(r.Errors, "; ")
}

// Err returns nil for a valid result and an *Error carrying it otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &Error{Result: r}
}

// Error lets services hand a failed Result back through an error return.
type Error struct {
	Result Result
}

func (e *Error) Error() string {
	return "validation failed: " + e.Result.Message()
}

// Collector accumulates messages while a validator walks a DTO.
type Collector struct {
	errors   []string
	warnings []string
}

func (c *Collector) Add(msg string) {
	c.errors = append(c.errors, msg)
}

func (c *Collector) AddIf(cond bool, msg string) {
	if cond {
		c.Add(msg)
	}
}

func (c *Collector) Warn(msg string) {
	c.warnings = append(c.warnings, msg)
}

func (c *Collector) Result() Result {
	r := Success()
	if len(c.errors) > 0 {
		r = Failure(c.errors...)
	}
	r.Warnings = append(r.Warnings, c.warnings...)
	return r
}
