package mode

import "testing"

func TestVisibility_IsValid(t *testing.T) {
	valid := []Visibility{CheckVisibility, SkipVisibility}
	for _, m := range valid {
		if !m.IsValid() {
			t.Errorf("%q.IsValid() = false, want true", m)
		}
	}

	invalid := []Visibility{"", "none", "CHECK"}
	for _, m := range invalid {
		if m.IsValid() {
			t.Errorf("%q.IsValid() = true, want false", m)
		}
	}
}

func TestVisibility_Checks(t *testing.T) {
	if !Visibility("").Checks() {
		t.Error("zero value should check visibility")
	}
	if !CheckVisibility.Checks() {
		t.Error("CheckVisibility should check")
	}
	if SkipVisibility.Checks() {
		t.Error("SkipVisibility should not check")
	}
}

func TestBoostAndOperator(t *testing.T) {
	if !NoBoost.IsValid() || !MostRecentFirst.IsValid() || Boost("oldest").IsValid() {
		t.Error("unexpected boost validity")
	}
	if !DefaultOperator.IsValid() || !And.IsValid() || !Or.IsValid() || Operator("xor").IsValid() {
		t.Error("unexpected operator validity")
	}
}
