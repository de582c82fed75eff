package fingerprint

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestFingerprintDeterministic(t *testing.T) {
	path := writeTemp(t, "same content")

	m1, err := Fingerprint(path)
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	m2, err := Fingerprint(path)
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}

	if m1.Hash != m2.Hash {
		t.Errorf("hash not deterministic: %s != %s", m1.Hash, m2.Hash)
	}
	if len(m1.Hash) != 64 {
		t.Errorf("expected 64-char hex digest, got %d chars", len(m1.Hash))
	}
}

func TestFingerprintDifferentContent(t *testing.T) {
	p1 := writeTemp(t, "content one")
	p2 := writeTemp(t, "content two")

	m1, err := Fingerprint(p1)
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	m2, err := Fingerprint(p2)
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}

	if m1.Hash == m2.Hash {
		t.Errorf("expected different hashes for different content")
	}
}

func TestExtension(t *testing.T) {
	cases := map[string]string{
		"/a/b/file.TXT":     "txt",
		"/a/b/README.md":    "md",
		"/a/b/file":         "",
		"/a/b/archive.tar.gz": "gz",
	}
	for path, want := range cases {
		if got := Extension(path); got != want {
			t.Errorf("Extension(%q) = %q, want %q", path, got, want)
		}
	}
}
