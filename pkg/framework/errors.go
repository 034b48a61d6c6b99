package framework

import "strings"

// Errors collects errors from parts working independently,
// e.g. the registrars of an event or the runnables of a loop.
type Errors []error

// Add appends non-nil errors.
func (e *Errors) Add(errs ...error) *Errors {
	for _, err := range errs {
		if err != nil {
			*e = append(*e, err)
		}
	}
	return e
}

// Err returns nil when nothing was collected, the only error when
// one was, and e otherwise.
func (e Errors) Err() error {
	switch len(e) {
	case 0:
		return nil
	case 1:
		return e[0]
	}
	return e
}

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for n, err := range e {
		msgs[n] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
