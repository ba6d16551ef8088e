package id

import (
	"regexp"
	"strings"
	"testing"
)

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

func TestNewID32_FormatAndUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		got := NewID32()
		if !reHex32.MatchString(got) {
			t.Fatalf("not 32-char lowercase hex: %q", got)
		}
		if !IsID32(got) {
			t.Fatalf("IsID32 rejects generated id: %q", got)
		}
		if _, dup := seen[got]; dup {
			t.Fatalf("duplicate id generated: %q", got)
		}
		seen[got] = struct{}{}
	}
}

func TestIsID32(t *testing.T) {
	bad := []string{
		"",
		"abc",
		strings.Repeat("a", 31),
		strings.Repeat("a", 33),
		strings.ToUpper(strings.Repeat("a", 32)),
		strings.Repeat("g", 32),
		strings.Repeat("a", 16) + "-" + strings.Repeat("a", 15),
	}
	for _, s := range bad {
		if IsID32(s) {
			t.Fatalf("IsID32(%q) = true, want false", s)
		}
	}
	if !IsID32("0123456789abcdef0123456789abcdef") {
		t.Fatal("IsID32 rejects a valid id")
	}
}
