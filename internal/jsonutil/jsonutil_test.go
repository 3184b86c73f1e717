package jsonutil

import "testing"

func TestUnmarshalWithContext(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	if err := UnmarshalWithContext([]byte(`{"name":"ollama"}`), &v, "parse config"); err != nil {
		t.Fatalf("UnmarshalWithContext() error: %v", err)
	}
	if v.Name != "ollama" {
		t.Errorf("Name = %q, want %q", v.Name, "ollama")
	}

	err := UnmarshalWithContext([]byte(`{invalid`), &v, "parse config")
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if got := err.Error(); len(got) == 0 || got[:12] != "parse config" {
		t.Errorf("error %q should be prefixed with context", got)
	}
}
