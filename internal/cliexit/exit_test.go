package cliexit

import (
	"errors"
	"testing"
)

func TestErrorfFormatsMessage(t *testing.T) {
	err := Errorf("missing file: %s", "app.py")
	if err.Code != 1 {
		t.Errorf("Code = %d, want 1", err.Code)
	}
	if err.Error() != "missing file: app.py" {
		t.Errorf("Error() = %q, want %q", err.Error(), "missing file: app.py")
	}
}

func TestErrorUnwrapsViaErrorsAs(t *testing.T) {
	var wrapped error = Errorf("boom")
	var target *Error
	if !errors.As(wrapped, &target) {
		t.Fatal("expected errors.As to match *Error")
	}
	if target.Message != "boom" {
		t.Errorf("Message = %q, want %q", target.Message, "boom")
	}
}
