package patient

import (
	"errors"
	"testing"
)

func TestFields_Validate(t *testing.T) {
	cases := []struct {
		name   string
		fields Fields
		ok     bool
	}{
		{"valid", Fields{Name: "Asha"}, true},
		{"empty", Fields{}, false},
		{"whitespace only", Fields{Name: " \t "}, false},
		{"clinical fields optional", Fields{Name: "Asha", Diagnosis: ""}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.fields.Validate()
			if tc.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestFields_Apply(t *testing.T) {
	f := Fields{
		Name:      "  Asha Verma  ",
		BedNumber: "12B",
		Diagnosis: "",
	}
	var p Patient
	f.apply(&p)

	if p.Name != "Asha Verma" {
		t.Errorf("expected trimmed name, got %q", p.Name)
	}
	if p.BedNumber == nil || *p.BedNumber != "12B" {
		t.Errorf("expected bed number 12B, got %v", p.BedNumber)
	}
	if p.Diagnosis != nil {
		t.Errorf("expected empty field to map to nil, got %q", *p.Diagnosis)
	}
}
