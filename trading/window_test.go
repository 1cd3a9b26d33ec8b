package trading

import (
	"errors"
	"testing"
)

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("2019-01-01", "2019-12-31")
	if err != nil {
		t.Fatal(err)
	}
	if w.String() != "2019-01-01 ~ 2019-12-31" {
		t.Errorf("String() = %s", w.String())
	}
}

func TestParseWindowBadDate(t *testing.T) {
	if _, err := ParseWindow("2019/01/01", "2019-12-31"); err == nil {
		t.Error("expected error for malformed start date")
	}
	if _, err := ParseWindow("2019-01-01", "yesterday"); err == nil {
		t.Error("expected error for malformed end date")
	}
}

func TestParseWindowInverted(t *testing.T) {
	_, err := ParseWindow("2019-12-31", "2019-01-01")
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("err = %v, want ErrInvalidWindow", err)
	}

	// Equal start and end is rejected too, the window needs at least
	// two trading days.
	_, err = ParseWindow("2019-01-01", "2019-01-01")
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("err = %v, want ErrInvalidWindow", err)
	}
}

func TestValidateZeroWindow(t *testing.T) {
	var w Window
	if !errors.Is(w.Validate(), ErrInvalidWindow) {
		t.Error("zero window passed validation")
	}
}
