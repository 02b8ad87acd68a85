package poll

import (
	"errors"
	"fmt"
	"time"
)

// TimeoutError is returned when the predicate never held within the budget.
//
// Log carries diagnostics fetched after the timeout by the caller. When that
// fetch failed, LogErr holds the reason and Log is empty.
type TimeoutError struct {
	Label   string
	Elapsed time.Duration
	Timeout time.Duration
	Log     string
	LogErr  error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("timed out waiting for %s after %s (timeout %s)",
		e.Label, e.Elapsed.Round(time.Second), e.Timeout)
	switch {
	case e.LogErr != nil:
		msg += fmt.Sprintf("; diagnostic log unavailable: %v", e.LogErr)
	case e.Log != "":
		msg += "; diagnostic log attached"
	}
	return msg
}

// IsTimeout reports whether err is or wraps a *TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
