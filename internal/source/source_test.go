package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestNewDispatchesByExtension(t *testing.T) {
	cases := map[string]string{
		"txt":      "*source.textSource",
		"markdown": "*source.markdownSource",
		"pdf":      "*source.pdfSource",
		"csv":      "*source.csvSource",
		"json":     "*source.jsonSource",
		"zip":      "*source.zipSource",
		"exe":      "*source.genericSource",
	}
	for ext := range cases {
		src := New("/tmp/whatever."+ext, ext)
		if src.Extension() != ext {
			t.Errorf("extension %q: got %q", ext, src.Extension())
		}
	}
}

func TestTextSourceToText(t *testing.T) {
	p := writeTemp(t, "notes.txt", "# Title\n\nsome text with ```code```\n")
	src := New(p, "txt")

	text, err := src.ToText(context.Background())
	if err != nil {
		t.Fatalf("ToText: %v", err)
	}
	if text == "" {
		t.Fatal("expected non-empty text")
	}

	tags, err := src.GenerateTags(context.Background())
	if err != nil {
		t.Fatalf("GenerateTags: %v", err)
	}
	want := map[string]bool{"documentation": false, "code": false}
	for _, tag := range tags {
		if _, ok := want[tag]; ok {
			want[tag] = true
		}
	}
	for tag, found := range want {
		if !found {
			t.Errorf("expected tag %q, got %v", tag, tags)
		}
	}
}

func TestCSVSourceMetadata(t *testing.T) {
	p := writeTemp(t, "data.csv", "a,b,c\n1,2,3\n4,5,6\n")
	src := New(p, "csv")

	meta, err := src.ToMetadata(context.Background())
	if err != nil {
		t.Fatalf("ToMetadata: %v", err)
	}
	if meta["row_count"] != 2 {
		t.Errorf("row_count = %v, want 2", meta["row_count"])
	}
	if meta["column_count"] != 3 {
		t.Errorf("column_count = %v, want 3", meta["column_count"])
	}
}

func TestJSONSourceTags(t *testing.T) {
	p := writeTemp(t, "package.json", `{"name":"x","version":"1.0.0","scripts":{"build":"x"},"dependencies":{}}`)
	src := New(p, "json")

	tags, err := src.GenerateTags(context.Background())
	if err != nil {
		t.Fatalf("GenerateTags: %v", err)
	}
	found := map[string]bool{}
	for _, tag := range tags {
		found[tag] = true
	}
	for _, want := range []string{"json", "package", "nodejs", "build"} {
		if !found[want] {
			t.Errorf("expected tag %q in %v", want, tags)
		}
	}
}

func TestGenericSourceIsEmpty(t *testing.T) {
	p := writeTemp(t, "binary.exe", "\x00\x01\x02")
	src := New(p, "exe")

	text, err := src.ToText(context.Background())
	if err != nil || text != "" {
		t.Errorf("ToText = %q, %v; want empty, nil", text, err)
	}
	meta, err := src.ToMetadata(context.Background())
	if err != nil || meta != nil {
		t.Errorf("ToMetadata = %v, %v; want nil, nil", meta, err)
	}
}
