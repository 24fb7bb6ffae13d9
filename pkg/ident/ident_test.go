package ident

import "testing"

func TestSHA256Hex(t *testing.T) {
	// Known vector: sha256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := SHA256Hex("abc"); got != want {
		t.Errorf("SHA256Hex(abc) = %s, want %s", got, want)
	}
}

func TestIteratedSHA256_SingleIterationMatchesPlain(t *testing.T) {
	if IteratedSHA256("hello", 1) != SHA256Hex("hello") {
		t.Error("one iteration should equal plain SHA256")
	}
}

func TestHashUserID_DeterministicAndDistinct(t *testing.T) {
	a := HashUserID("550e8400-e29b-41d4-a716-446655440000")
	b := HashUserID("550e8400-e29b-41d4-a716-446655440000")
	c := HashUserID("550e8400-e29b-41d4-a716-446655440001")

	if a != b {
		t.Error("same UUID should hash to same user id")
	}
	if a == c {
		t.Error("different UUIDs should hash to different user ids")
	}
	if len(a) != 64 {
		t.Errorf("user id length = %d, want 64 hex chars", len(a))
	}
}

func TestNewUserID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := NewUserID()
		if seen[id] {
			t.Fatal("NewUserID produced a duplicate")
		}
		seen[id] = true
	}
}
