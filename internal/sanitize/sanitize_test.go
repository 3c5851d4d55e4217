package sanitize

import (
	"errors"
	"strings"
	"testing"
)

func TestIDCanonicalization(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"prefers-tests-first", "prefers-tests-first"},
		{"Prefers Tests First", "prefers-tests-first"},
		{"prefers_tests_first", "prefers-tests-first"},
		{"prefers--tests---first", "prefers-tests-first"},
		{"-leading-and-trailing-", "leading-and-trailing"},
		{"CAPS123", "caps123"},
	}

	for _, tc := range cases {
		got, err := ID(tc.in)
		if err != nil {
			t.Errorf("ID(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIDStripsPathTraversal(t *testing.T) {
	got, err := ID("../../../etc/passwd")
	if err != nil {
		t.Fatalf("ID failed: %v", err)
	}
	if strings.Contains(got, "/") || strings.Contains(got, "..") {
		t.Errorf("sanitized id %q still contains path segments", got)
	}
	if got != "etcpasswd" {
		t.Errorf("ID(traversal) = %q, want %q", got, "etcpasswd")
	}
}

func TestIDStripsSQLMetacharacters(t *testing.T) {
	got, err := ID("'; DROP TABLE user_patterns; --")
	if err != nil {
		t.Fatalf("ID failed: %v", err)
	}
	for _, bad := range []string{"'", ";", "	", " "} {
		if strings.Contains(got, bad) {
			t.Errorf("sanitized id %q contains %q", got, bad)
		}
	}
}

func TestIDRejectsEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "!!!", "../..", "日本語"} {
		if _, err := ID(in); !errors.Is(err, ErrInvalid) {
			t.Errorf("ID(%q) = %v, want ErrInvalid", in, err)
		}
	}
}

func TestIDBoundedLength(t *testing.T) {
	got, err := ID(strings.Repeat("a", 300))
	if err != nil {
		t.Fatalf("ID failed: %v", err)
	}
	if len(got) > MaxIDLength {
		t.Errorf("id length %d exceeds max %d", len(got), MaxIDLength)
	}
}

func TestCategoryMembership(t *testing.T) {
	for _, c := range Categories {
		got, err := Category(c)
		if err != nil || got != c {
			t.Errorf("Category(%q) = %q, %v", c, got, err)
		}
	}

	// Case and whitespace are normalized
	if got, err := Category("  Verification "); err != nil || got != "verification" {
		t.Errorf("Category normalization failed: %q, %v", got, err)
	}

	for _, bad := range []string{"", "astrology", "verification; DROP TABLE user_patterns"} {
		if _, err := Category(bad); !errors.Is(err, ErrInvalid) {
			t.Errorf("Category(%q) = %v, want ErrInvalid", bad, err)
		}
	}
}
