// Package testsupport holds fixture helpers shared by package tests.
package testsupport

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// UpdateGoldenEnv rewrites golden files instead of comparing when set to 1.
const UpdateGoldenEnv = "DOCLINT_UPDATE_GOLDEN"

func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func LoadGolden(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// AssertGolden compares got with the golden file at path byte for byte.
func AssertGolden(t testing.TB, path string, got []byte) {
	t.Helper()
	if os.Getenv(UpdateGoldenEnv) == "1" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create golden dir: %v", err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			t.Fatalf("update golden %s: %v", path, err)
		}
		return
	}
	want, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("load golden %s: %v", path, err)
	}
	if !bytes.Equal(want, got) {
		t.Fatalf("output does not match %s\nwant:\n%s\ngot:\n%s", path, want, got)
	}
}
