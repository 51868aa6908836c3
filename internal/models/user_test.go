package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestUserFullName(t *testing.T) {
	cases := map[string]User{
		"Ada Lovelace": {FirstName: "Ada", LastName: "Lovelace"},
		"Ada":          {FirstName: "Ada"},
		"Lovelace":     {LastName: "Lovelace"},
		"":             {},
	}
	for want, u := range cases {
		if got := u.FullName(); got != want {
			t.Fatalf("FullName() = %q, want %q", got, want)
		}
	}
}

func TestUserMarshalJSON(t *testing.T) {
	u := User{
		ID:           uuid.New(),
		Username:     "ada",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		PasswordHash: "$2a$10$secret",
		Roles:        []Role{NewRole("User", true, PermFollow)},
		MemberSince:  time.Now().UTC(),
	}
	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "secret") {
		t.Fatalf("password hash leaked: %s", raw)
	}

	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["full_name"] != "Ada Lovelace" {
		t.Fatalf("full_name = %v", got["full_name"])
	}
	if got["username"] != "ada" || got["first_name"] != "Ada" {
		t.Fatalf("stored fields missing: %v", got)
	}
	if _, ok := got["roles"].([]any); !ok {
		t.Fatalf("roles = %T", got["roles"])
	}

	ptr, err := json.Marshal(&u)
	if err != nil || string(ptr) != string(raw) {
		t.Fatalf("pointer encoding differs: %s", ptr)
	}
}
