package pattern

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := []string{"*", "**", "*.rs", "/src/", "/src/**", "docs/*.md", "src/main.rs"}
	for _, p := range valid {
		if err := Validate(p); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", p, err)
		}
	}

	if err := Validate(""); !errors.Is(err, ErrEmptyPattern) {
		t.Errorf("Validate(\"\") = %v, want ErrEmptyPattern", err)
	}
	if err := Validate("/"); !errors.Is(err, ErrEmptyPattern) {
		t.Errorf("Validate(\"/\") = %v, want ErrEmptyPattern", err)
	}

	if err := Validate("[invalid"); err == nil {
		t.Error("Validate(\"[invalid\") = nil, want error for unclosed class")
	}
}
