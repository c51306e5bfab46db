package market

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidRange = errors.New("invalid bucket range")
	ErrEmptySession = errors.New("empty session")
	ErrMissingField = errors.New("missing field")
)

// InvalidRangeError reports a bucket grid that cannot be built.
type InvalidRangeError struct {
	Timeframe time.Duration
	Start     time.Time
	End       time.Time
}

func (e *InvalidRangeError) Error() string {
	if e.Timeframe < MinTimeframe {
		return fmt.Sprintf("%s: timeframe %s is shorter than %s", ErrInvalidRange, e.Timeframe, MinTimeframe)
	}
	return fmt.Sprintf("%s: start %s is not before end %s",
		ErrInvalidRange, e.Start.Format(time.DateTime), e.End.Format(time.DateTime))
}

func (e *InvalidRangeError) Is(target error) bool { return target == ErrInvalidRange }

// EmptySessionError means no ticks exist for the requested symbol and date.
type EmptySessionError struct {
	Symbol string
	Date   string
}

func (e *EmptySessionError) Error() string {
	if e.Symbol == "" && e.Date == "" {
		return ErrEmptySession.Error()
	}
	return fmt.Sprintf("%s: no ticks for %s on %s", ErrEmptySession, e.Symbol, e.Date)
}

func (e *EmptySessionError) Is(target error) bool { return target == ErrEmptySession }

// MissingFieldError is returned when a required column is absent from the
// header (Line == 0) or a required cell is empty on a data line.
type MissingFieldError struct {
	Field string
	Line  int
}

func (e *MissingFieldError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s %q on line %d", ErrMissingField, e.Field, e.Line)
	}
	return fmt.Sprintf("%s %q", ErrMissingField, e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }
