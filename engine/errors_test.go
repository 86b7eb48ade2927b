package engine

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodes(t *testing.T) {
	base := NewError(ErrCodeMissingAxis, "needs %s", "yAxis")
	wrapped := fmt.Errorf("render: %w", base)

	if got := GetCode(wrapped); got != ErrCodeMissingAxis {
		t.Errorf("GetCode = %q", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("plain error code = %q", got)
	}
	if got := UserMessage(wrapped); got != "needs yAxis" {
		t.Errorf("UserMessage = %q", got)
	}

	cause := WrapError(ErrCodeInvalidInput, errors.New("unknown column \"x\""), "column not found")
	if got := UserMessage(cause); got != `column not found: unknown column "x"` {
		t.Errorf("wrapped UserMessage = %q", got)
	}
	if !errors.Is(cause, cause.Cause) {
		t.Error("WrapError should unwrap to its cause")
	}
}
