package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-02-30", "01-01-2023", "", "2023/01/01"}
	for _, d := range valid {
		if _, ok := IsValidDate(d); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestIsValidClockTime(t *testing.T) {
	cases := []struct {
		input      string
		wantOK     bool
		wantHour   int
		wantMinute int
	}{
		{"08:00:00", true, 8, 0},
		{"17:30", true, 17, 30},
		{"23:59:59", true, 23, 59},
		{"24:00", false, 0, 0},
		{"8am", false, 0, 0},
		{"", false, 0, 0},
	}
	for _, c := range cases {
		got, ok := IsValidClockTime(c.input)
		if ok != c.wantOK {
			t.Errorf("IsValidClockTime(%q) ok = %v, want %v", c.input, ok, c.wantOK)
			continue
		}
		if ok && (got.Hour() != c.wantHour || got.Minute() != c.wantMinute) {
			t.Errorf("IsValidClockTime(%q) = %02d:%02d, want %02d:%02d", c.input, got.Hour(), got.Minute(), c.wantHour, c.wantMinute)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"day", "night"}
	if !IsInSlice("day", slice) {
		t.Error("IsInSlice(day) = false, want true")
	}
	if IsInSlice("swing", slice) {
		t.Error("IsInSlice(swing) = true, want false")
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "employee_id", Message: "employee_id is required"},
		{Field: "date", Message: "date must be in YYYY-MM-DD format"},
	}
	want := "employee_id: employee_id is required; date: date must be in YYYY-MM-DD format"
	if errs.Error() != want {
		t.Errorf("Error() = %q, want %q", errs.Error(), want)
	}
	m := errs.ToMap()
	if m["date"] != "date must be in YYYY-MM-DD format" || len(m) != 2 {
		t.Errorf("ToMap() = %v", m)
	}
}
