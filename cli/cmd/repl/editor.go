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

	"github.com/ardnew/jtl/log"
	"github.com/ardnew/jtl/service"
)

const defaultEditor = "vi"

// editTemplateCommand implements [tea.ExecCommand] for the template
// edit-check-retry loop. It writes the current draft to a temp file, opens
// the user's editor, and checks the result. On diagnostics the user is
// prompted to re-edit; declining exits the program.
type editTemplateCommand struct {
	draft   string
	ctxFunc func() context.Context
	text    string
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editTemplateCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editTemplateCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editTemplateCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-check-retry loop. An empty result leaves text
// empty. If the user declines to re-edit, it returns [ErrEditDeclined].
func (c *editTemplateCommand) Run() error {
	ctx := c.ctxFunc()
	content := c.draft

	// Create a single temp file for the entire loop.
	f, err := os.CreateTemp(os.TempDir(), "jtl-repl-*.jtl")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		// Write current content to temp file.
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		// Launch editor and get a reader over the result.
		r, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}

		content = string(data)

		// Empty file; treat as cancelled edit.
		if strings.TrimSpace(content) == "" {
			return nil
		}

		diags := service.Diagnose(content)
		c.logger.TraceContext(
			ctx,
			"editor check attempt",
			slog.Int("content_length", len(content)),
			slog.Int("diagnostics", len(diags)),
		)

		if len(diags) == 0 {
			c.text = content

			return nil
		}

		// Show diagnostics and prompt.
		fmt.Fprintln(c.stderr)

		for _, d := range diags {
			fmt.Fprintf(c.stderr, "%s: %s\n", d.Span.Start, d.Message)
		}

		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}
	}
}

// runEditor launches the user's editor on the given file path and returns a
// reader over the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) (io.Reader, error) {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}

	args := strings.Fields(editor)
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

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return strings.NewReader(string(data)), nil
}
