package cli

import (
	"errors"
	"fmt"

	"graph-history/internal/picker"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type invalidArgError struct {
	arg    string
	value  string
	reason string
}

func (e invalidArgError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.arg, e.value, e.reason)
}

func errInvalidArg(arg, value, reason string) error {
	return invalidArgError{arg: arg, value: value, reason: reason}
}

// historyErr turns an empty-history failure into a user-facing not-found error.
func historyErr(err error, outputDir string) error {
	if errors.Is(err, picker.ErrEmptyYearList) {
		return errNotFound("graphs", outputDir)
	}
	return err
}
