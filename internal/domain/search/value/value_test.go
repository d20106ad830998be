package value

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalize_Priority(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind Kind
		wire string
	}{
		{"empty", "", KindEmpty, ""},
		{"hyphenated id", "a1b2c3d4-e5f6-a7b8-c9d0-e1f2a3b4c5d6", KindID, "{A1B2C3D4-E5F6-A7B8-C9D0-E1F2A3B4C5D6}"},
		{"braced id", "{A1B2C3D4-E5F6-A7B8-C9D0-E1F2A3B4C5D6}", KindID, "{A1B2C3D4-E5F6-A7B8-C9D0-E1F2A3B4C5D6}"},
		{"32 hex", "A1B2C3D4E5F6A7B8C9D0E1F2A3B4C5D6", KindShortID, "A1B2C3D4E5F6A7B8C9D0E1F2A3B4C5D6"},
		{"iso date", "2024-03-15", KindDate, "2024-03-15T00:00:00Z"},
		{"rfc3339", "2024-03-15T10:30:00+02:00", KindDate, "2024-03-15T08:30:00Z"},
		{"plain string", "News", KindString, "news"},
		{"year only is not a date", "2024", KindString, "2024"},
		{"int passthrough", 42, KindRaw, "42"},
		{"bool passthrough", true, KindRaw, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Normalize(tt.in)
			if v.Kind() != tt.kind {
				t.Fatalf("kind = %d, want %d", v.Kind(), tt.kind)
			}
			if v.String() != tt.wire {
				t.Errorf("String() = %q, want %q", v.String(), tt.wire)
			}
		})
	}
}

func TestNormalize_IdentifierNotLowerCased(t *testing.T) {
	v := Normalize("A1B2C3D4E5F6A7B8C9D0E1F2A3B4C5D6")
	if v.Kind() != KindShortID {
		t.Fatalf("Kind() = %v, want short identifier", v.Kind())
	}
	if v.String() == "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6" {
		t.Error("identifier must not take the lower-case path")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []any{
		"", "a1b2c3d4-e5f6-a7b8-c9d0-e1f2a3b4c5d6", "A1B2C3D4E5F6A7B8C9D0E1F2A3B4C5D6",
		"2024-01-31", "Sports", 7,
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once.Raw())
		if once.Kind() != twice.Kind() || once.String() != twice.String() {
			t.Errorf("Normalize(%v) not idempotent: %v/%q vs %v/%q",
				in, once.Kind(), once.String(), twice.Kind(), twice.String())
		}
	}
}

func TestNormalize_TypedPassthrough(t *testing.T) {
	id := uuid.MustParse("a1b2c3d4-e5f6-a7b8-c9d0-e1f2a3b4c5d6")
	if got := Normalize(id); got.Kind() != KindID || got.Raw() != id {
		t.Errorf("uuid passthrough: %+v", got)
	}

	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := Normalize(ts); got.Kind() != KindDate || got.String() != "2024-03-01T00:00:00Z" {
		t.Errorf("time passthrough: %+v", got)
	}
}
