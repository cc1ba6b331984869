package internal

import (
	"testing"
)

// FuzzValidateOpaqueToken exercises token shape validation with arbitrary strings.
// Goal: no panics; generated tokens always validate.
func FuzzValidateOpaqueToken(f *testing.F) {
	f.Add("")
	f.Add("abc")
	f.Add("!!!not-base64!!!")
	if token, err := NewOpaqueToken(); err == nil {
		f.Add(token)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if err := ValidateOpaqueToken(input); err != nil {
			return
		}
		if HashToken(input) == HashToken(input+"x") {
			t.Fatal("distinct tokens must hash differently")
		}
	})
}

func TestNewOpaqueTokenShape(t *testing.T) {
	a, err := NewOpaqueToken()
	if err != nil {
		t.Fatalf("NewOpaqueToken: %v", err)
	}
	b, _ := NewOpaqueToken()
	if a == b {
		t.Fatal("tokens must be random")
	}
	if err := ValidateOpaqueToken(a); err != nil {
		t.Fatalf("generated token must validate: %v", err)
	}
}
