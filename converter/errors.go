package converter

import (
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is matched by every *TimeoutError.
var ErrTimeout = errors.New("conversion timed out")

// TimeoutError reports a conversion that exceeded its wall-clock budget.
// No partial output accompanies it.
type TimeoutError struct {
	Budget time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("DOCX conversion timed out after %s", e.Budget)
}

// Is makes errors.Is(err, ErrTimeout) hold for any TimeoutError.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}
