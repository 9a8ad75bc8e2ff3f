package picker

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyYearList  = errors.New("history has no years")
	ErrEmptyMonthList = errors.New("year has no months")
	ErrEmptyDayList   = errors.New("month has no days")
	ErrNoSelection    = errors.New("no selection")
	ErrOutOfRange     = errors.New("selection out of range")
	ErrNotFound       = errors.New("not found")
)

// SelectionError reports which control a failed lookup was reading from.
type SelectionError struct {
	Control string
	Index   int
	Name    string
	Err     error
}

func (e *SelectionError) Error() string {
	switch {
	case e.Name != "":
		return fmt.Sprintf("%s %q: %v", e.Control, e.Name, e.Err)
	case errors.Is(e.Err, ErrOutOfRange):
		return fmt.Sprintf("%s index %d: %v", e.Control, e.Index, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Control, e.Err)
	}
}

func (e *SelectionError) Unwrap() error { return e.Err }

func selectionErr(control string, index int, err error) error {
	return &SelectionError{Control: control, Index: index, Err: err}
}

func notFoundErr(control, name string) error {
	return &SelectionError{Control: control, Index: -1, Name: name, Err: ErrNotFound}
}
