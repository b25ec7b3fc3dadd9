package jsonutil

import (
	"strings"
	"testing"
)

func TestUnmarshalToleratesBOMAndWhitespace(t *testing.T) {
	data := []byte("\xEF\xBB\xBF  \n{\"k\": \"v\"}\n")
	var out map[string]string
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["k"] != "v" {
		t.Fatalf("got %v", out)
	}
}

func TestMarshalNoEscapeKeepsAngleBrackets(t *testing.T) {
	b, err := MarshalNoEscape(map[string]string{"purpose": "renders <Button> & friends"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "<Button>") || strings.Contains(s, "\\u003c") {
		t.Fatalf("html escaping leaked into %q", s)
	}
	if strings.HasSuffix(s, "\n") {
		t.Fatalf("trailing newline not trimmed: %q", s)
	}
}

func TestMarshalNoEscapeIndent(t *testing.T) {
	b, err := MarshalNoEscapeIndent(map[string]int{"a": 1}, "", "  ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), "\n  \"a\": 1") {
		t.Fatalf("unexpected indentation: %q", string(b))
	}
}
