package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: "untitled"},
		{name: "spaces", in: "my clip", want: "my_clip"},
		{name: "forbidden", in: "a:b/c?d", want: "a_b_c_d"},
		{name: "collapse and trim", in: "__a  b__", want: "a_b"},
		{name: "only junk", in: "???", want: "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteFileCreatesParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "file.toml")
	if err := WriteFile(path, []byte("x = 1\n")); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "x = 1\n" {
		t.Errorf("content = %q", data)
	}
}
