package utils

import (
	"errors"
	"testing"
)

func TestParseBearerToken_Success(t *testing.T) {
	token, err := ParseBearerToken("Bearer abc.def.ghi")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token != "abc.def.ghi" {
		t.Errorf("expected token 'abc.def.ghi', got '%s'", token)
	}
}

func TestParseBearerToken_CaseInsensitiveScheme(t *testing.T) {
	token, err := ParseBearerToken("bearer abc.def.ghi")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token != "abc.def.ghi" {
		t.Errorf("expected token 'abc.def.ghi', got '%s'", token)
	}
}

func TestParseBearerToken_Invalid(t *testing.T) {
	cases := []string{
		"",
		"Bearer",
		"Bearer ",
		"Basic abc.def.ghi",
		"Bearer abc def",
	}

	for _, header := range cases {
		if _, err := ParseBearerToken(header); !errors.Is(err, ErrInvalidAuthorizationHeader) {
			t.Errorf("ParseBearerToken(%q) expected ErrInvalidAuthorizationHeader, got %v", header, err)
		}
	}
}
