package goRoles

import (
	"errors"
	"testing"
)

func TestMergeRole(t *testing.T) {
	current := Role{
		ID:        "1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Role:      "Admin",
		JWTToken:  "token",
	}

	merged, err := mergeRole(current, []byte(`{"id":"1","firstName":"Grace","updated":"2024-01-01T00:00:00Z"}`))
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	want := current
	want.FirstName = "Grace"
	want.Updated = "2024-01-01T00:00:00Z"
	if merged != want {
		t.Fatalf("got %+v, want %+v", merged, want)
	}
}

func TestMergeRoleExplicitZeroWins(t *testing.T) {
	current := Role{ID: "1", Title: "Dr", IsVerified: true}

	merged, err := mergeRole(current, []byte(`{"title":"","isVerified":false}`))
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if merged.Title != "" || merged.IsVerified {
		t.Fatalf("explicit values in the response must win: %+v", merged)
	}
	if merged.ID != "1" {
		t.Fatal("absent keys must keep the current value")
	}
}

func TestMergeRoleRejectsNonObject(t *testing.T) {
	if _, err := mergeRole(Role{ID: "1"}, []byte(`[1,2]`)); !errors.Is(err, ErrDecodeResponse) {
		t.Fatalf("expected ErrDecodeResponse, got %v", err)
	}
}
