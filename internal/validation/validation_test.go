package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/hongminglow/blog-be/internal/models/dto"
)

func TestStructReportsEveryField(t *testing.T) {
	v := New()
	err := v.Struct(dto.CreateUserRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "not-an-email",
		Username:  strings.Repeat("u", 51),
		Phone:     "555",
		Password:  "longenough",
	})
	verrs, ok := AsErrors(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if got := verrs["email"]; len(got) != 1 || got[0] != "Not a valid email address." {
		t.Fatalf("email messages = %v", got)
	}
	if got := verrs["username"]; len(got) != 1 || got[0] != "Longer than maximum length 50." {
		t.Fatalf("username messages = %v", got)
	}
	if len(verrs) != 2 {
		t.Fatalf("unexpected fields: %v", verrs)
	}
}

func TestStructPartialUpdateSkipsNilFields(t *testing.T) {
	v := New()
	if err := v.Struct(dto.UpdatePostRequest{}); err != nil {
		t.Fatalf("empty partial update should pass, got %v", err)
	}
	bad := "nope"
	err := v.Struct(dto.UpdatePostRequest{ImageURL: &bad})
	verrs, ok := AsErrors(err)
	if !ok || verrs["image_url"][0] != "Not a valid URL." {
		t.Fatalf("expected image_url error, got %v", err)
	}
}

func TestErrorsErr(t *testing.T) {
	e := Errors{}
	if e.Err() != nil {
		t.Fatal("empty Errors must convert to nil error")
	}
	e.Add("email", "Email already exist.")
	e.Add("username", "Username already exist.")

	err := e.Err()
	var got Errors
	if !errors.As(err, &got) {
		t.Fatalf("expected Errors, got %T", err)
	}
	if len(got) != 2 {
		t.Fatalf("merged errors = %v", got)
	}
	if !strings.Contains(err.Error(), "email: Email already exist.") {
		t.Fatalf("error string = %q", err.Error())
	}
}
