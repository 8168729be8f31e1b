package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/vex/lang"
	"github.com/ardnew/vex/log"
)

const defaultEditor = "vi"

// lineBreaks joins the lines of an edited expression.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ")

// editCommand implements [tea.ExecCommand] for the edit-compile-retry loop.
// It writes the current input to a temp file, opens the user's editor, and
// compiles the result. On compile error the user is prompted to re-edit.
type editCommand struct {
	ctxFunc func() context.Context
	logger  log.Logger
	opts    []lang.Option
	source  string
	edited  string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-compile-retry loop. An emptied file cancels the edit
// and leaves edited empty. If the user declines to re-edit after a compile
// error, it returns [ErrEditDeclined].
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp("", "vex-repl-*.vex")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	f.Close()

	content := c.source

	for {
		if err := os.WriteFile(path, []byte(content+"\n"), 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path)
		if err != nil {
			return err
		}

		src := strings.TrimSpace(lineBreaks.Replace(string(data)))
		if src == "" {
			return nil
		}

		opts := append(c.opts[:len(c.opts):len(c.opts)], lang.WithLogger(c.logger))
		_, compileErr := lang.Compile(ctx, src, opts...)

		c.logger.TraceContext(ctx, "editor compile attempt",
			slog.Int("source_length", len(src)),
			slog.Bool("success", compileErr == nil))

		if compileErr == nil {
			c.edited = src

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%v\n", compileErr)

		if le, ok := compileErr.(*lang.Error); ok {
			fmt.Fprint(c.stderr, le.Excerpt(src))
		}

		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}

		content = string(data)
	}
}

// runEditor launches the user's editor on the given file path and returns
// the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
	args := strings.Fields(os.Getenv("VISUAL"))
	if len(args) == 0 {
		args = strings.Fields(os.Getenv("EDITOR"))
	}

	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
