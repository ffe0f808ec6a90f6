package ppview

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := NewError(CodeInvalidDateRange, false, "end %s precedes start %s", "2024-01-01", "2024-06-01")
	want := "INVALID_DATE_RANGE: end 2024-01-01 precedes start 2024-06-01"
	if err.Error() != want {
		t.Errorf("Error() = %q want %q", err.Error(), want)
	}
	if err.Recoverable {
		t.Error("Recoverable = true want false")
	}
}

func TestAsError(t *testing.T) {
	typed := NewError(CodeStateNotInitialized, false, "no state")
	if got := AsError(fmt.Errorf("dispatch: %w", typed)); got != typed {
		t.Errorf("AsError did not unwrap: got %v", got)
	}

	plain := errors.New("something broke")
	got := AsError(plain)
	if got.Code != CodeCalculationOverflow || !got.Recoverable {
		t.Errorf("AsError(plain) = %+v want recoverable CALCULATION_OVERFLOW", got)
	}
}
