package cachekey

import "testing"

func TestKey(t *testing.T) {
	// sha256("http://example.com")
	want := "f0e6a6a97042a4f1f1c87f5f7d44315b2d852c2df5c7991cc66241bf7072d1c4"
	if got := Key("http://example.com"); got != want {
		t.Fatalf("Key = %s, want %s", got, want)
	}
	if Key("http://example.com") != Key("http://example.com") {
		t.Fatal("Key is not deterministic")
	}
	if Key("http://example.com") == Key("http://example.com/") {
		t.Fatal("different URLs share a key")
	}
}

func TestValid(t *testing.T) {
	if !Valid(Key("anything")) {
		t.Fatal("generated key is not valid")
	}
	for _, s := range []string{"", "abc", Key("x")[:Size-1], "F0E6A6A97042A4F1F1C87F5F7D44315B2D852C2DF5C7991CC66241BF7072D1C4", Key("x") + ".tmp"} {
		if Valid(s) {
			t.Fatalf("Valid(%q) = true", s)
		}
	}
}
