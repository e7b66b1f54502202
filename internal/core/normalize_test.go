package core

import (
	"strings"
	"testing"
)

func TestTrimContent(t *testing.T) {
	got := TrimContent("  \n func main() {\n\treturn\n}  \t")
	want := "func main() {\n\treturn\n}"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestTrimContent_CapsLength(t *testing.T) {
	long := strings.Repeat("é", MaxContentLen)
	got := TrimContent(long)
	if len(got) > MaxContentLen {
		t.Fatalf("expected at most %d bytes, got %d", MaxContentLen, len(got))
	}
	if !strings.HasPrefix(long, got) || strings.ContainsRune(got, '�') {
		t.Fatalf("expected cut on a rune boundary")
	}
}

func TestPreview(t *testing.T) {
	if got := Preview("a\n  b\tc", 80); got != "a b c" {
		t.Fatalf("got %q", got)
	}
	if got := Preview("abcdefgh", 5); got != "abcd…" {
		t.Fatalf("got %q", got)
	}
}
