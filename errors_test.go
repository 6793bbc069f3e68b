package itqlsh

import (
	"errors"
	"testing"
)

func TestIndexErrorWrapAndUnwrap(t *testing.T) {
	base := errors.New("disk full")
	err := Wrap(KindIO, "save", base)

	var ie *IndexError
	if !errors.As(err, &ie) {
		t.Fatal("expected errors.As to find *IndexError")
	}
	if ie.Kind != KindIO {
		t.Errorf("Kind = %v, want KindIO", ie.Kind)
	}
	if !errors.Is(err, base) {
		t.Error("errors.Is should see through to the wrapped base error")
	}
}

func TestWrapNilIsNil(t *testing.T) {
	if Wrap(KindIO, "op", nil) != nil {
		t.Error("Wrap(_, _, nil) should return nil")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindIO:      "IoError",
		KindFormat:  "FormatError",
		KindParam:   "ParamError",
		KindNumeric: "NumericError",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
