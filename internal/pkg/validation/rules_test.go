package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type keyed struct {
	Key   string `validate:"required,entitykey"`
	Color string `validate:"required,hexcolor"`
}

func TestRegisterRules(t *testing.T) {
	v := validator.New()
	if err := RegisterRules(v); err != nil {
		t.Fatalf("RegisterRules: %v", err)
	}

	tests := []struct {
		name  string
		in    keyed
		valid bool
	}{
		{"valid", keyed{"spring_2024", "#a1B2c3"}, true},
		{"dash in key", keyed{"spring-2024", "#a1b2c3"}, false},
		{"short colour", keyed{"abc", "#abc"}, false},
		{"no hash", keyed{"abc", "a1b2c3"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if (err == nil) != tt.valid {
				t.Errorf("Struct(%+v) err = %v, want valid=%v", tt.in, err, tt.valid)
			}
		})
	}
}
