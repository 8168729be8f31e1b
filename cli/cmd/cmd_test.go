package cmd

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// writeFiles creates each name with its content in a fresh temp directory
// and returns the directory.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return dir
}

// pipeStdin replaces os.Stdin with a pipe carrying content for the duration
// of the test.
func pipeStdin(t *testing.T, content string) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	old := os.Stdin
	os.Stdin = r

	t.Cleanup(func() {
		os.Stdin = old
		r.Close()
	})

	go func() {
		defer w.Close()
		io.WriteString(w, content)
	}()
}

func readSources(t *testing.T, sources []string) (string, bool) {
	t.Helper()

	src := sourceFilesFrom(WithSourceFiles(t.Context(), sources))
	if src == nil {
		return "", false
	}

	data, err := io.ReadAll(src)
	if err != nil {
		t.Fatalf("reading from source files: %v", err)
	}

	return string(data), true
}

func TestWithSourceFilesEmpty(t *testing.T) {
	for _, sources := range [][]string{nil, {}} {
		if _, ok := readSources(t, sources); ok {
			t.Errorf("WithSourceFiles(%#v) should store nil reader", sources)
		}
	}
}

func TestWithSourceFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"first.vex":  "first",
		"second.vex": "second",
	})

	first := filepath.Join(dir, "first.vex")
	second := filepath.Join(dir, "second.vex")
	link := filepath.Join(dir, "link.vex")

	if err := os.Symlink(first, link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		sources []string
		want    string
	}{
		{"single", []string{first}, "first"},
		{"ordered", []string{second, first}, "secondfirst"},
		{"duplicate", []string{first, first, first}, "first"},
		{"symlink", []string{first, link}, "first"},
		{"nonexistent_skipped", []string{"/nonexistent/a.vex", second, "/nonexistent/b.vex"}, "second"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := readSources(t, tt.sources)
			if !ok {
				t.Fatal("WithSourceFiles should store non-nil reader")
			}

			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithSourceFilesRelativeAbsoluteDuplicates(t *testing.T) {
	dir := writeFiles(t, map[string]string{"rules.vex": "content"})

	t.Chdir(dir)

	got, ok := readSources(t, []string{"rules.vex", filepath.Join(dir, "rules.vex")})
	if !ok {
		t.Fatal("WithSourceFiles should store non-nil reader")
	}

	if got != "content" {
		t.Errorf("got %q, want %q (file should only be read once)", got, "content")
	}
}

func TestWithSourceFilesAllNonexistent(t *testing.T) {
	if _, ok := readSources(t, []string{"/nonexistent/a.vex", "/nonexistent/b.vex"}); ok {
		t.Error("WithSourceFiles should store nil reader when all files nonexistent")
	}
}

func TestWithSourceFilesStdinLast(t *testing.T) {
	dir := writeFiles(t, map[string]string{"file.vex": "file"})

	pipeStdin(t, "stdin")

	got, ok := readSources(t, []string{"-", filepath.Join(dir, "file.vex"), "-"})
	if !ok {
		t.Fatal("WithSourceFiles should store non-nil reader")
	}

	if got != "filestdin" {
		t.Errorf("got %q, want %q (stdin should be read once, last)", got, "filestdin")
	}
}

func TestReadExpressions(t *testing.T) {
	input := strings.Join([]string{
		"# rules for the spawn area",
		"player.health > 10",
		"",
		"   spawn.biome == \"plains\"   ",
		"  # indented comment",
		"max(1, 2)",
	}, "\n")

	got, err := readExpressions(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"player.health > 10", `spawn.biome == "plains"`, "max(1, 2)"}
	if !slices.Equal(got, want) {
		t.Errorf("readExpressions() = %q, want %q", got, want)
	}
}

func TestExpressions(t *testing.T) {
	dir := writeFiles(t, map[string]string{"rules.vex": "a\n# skip\nb\n"})
	file := filepath.Join(dir, "rules.vex")

	t.Run("args_only", func(t *testing.T) {
		got, err := expressions(t.Context(), []string{"x", "y"})
		if err != nil {
			t.Fatal(err)
		}

		if !slices.Equal(got, []string{"x", "y"}) {
			t.Errorf("got %q", got)
		}
	})

	t.Run("args_then_sources", func(t *testing.T) {
		ctx := WithSourceFiles(t.Context(), []string{file})

		got, err := expressions(ctx, []string{"x"})
		if err != nil {
			t.Fatal(err)
		}

		if !slices.Equal(got, []string{"x", "a", "b"}) {
			t.Errorf("got %q", got)
		}
	})

	t.Run("stdin_fallback", func(t *testing.T) {
		pipeStdin(t, "1 + 1\n\n2 + 2\n")

		got, err := expressions(t.Context(), nil)
		if err != nil {
			t.Fatal(err)
		}

		if !slices.Equal(got, []string{"1 + 1", "2 + 2"}) {
			t.Errorf("got %q", got)
		}
	})
}
