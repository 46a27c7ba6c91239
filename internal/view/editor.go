// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of gridbind

package view

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/derailed/tview"
	"github.com/gridbind/gridbind/internal/grid"
	"github.com/gridbind/gridbind/internal/list"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Editor errors
var (
	ErrEditorCancelled = errors.New("editor cancelled")
	ErrNoChanges       = errors.New("no changes detected")
	ErrNotDocuments    = errors.New("rows are not JSON documents")
)

// EditFunc opens path in an editor and returns its exit code.
type EditFunc func(path string) (int, error)

// EditSession represents an in-progress row edit.
type EditSession struct {
	Row      int
	Original []byte
	TempFile string
	ErrorMsg string

	docs   *list.Documents
	editFn EditFunc
}

// NewEditSession creates a session over row i of docs.
func NewEditSession(docs *list.Documents, i int, fn EditFunc) (*EditSession, error) {
	doc, ok := docs.Doc(i)
	if !ok {
		return nil, fmt.Errorf("no row %d", i)
	}

	return &EditSession{
		Row:      i,
		Original: bytes.Clone(doc.Raw),
		docs:     docs,
		editFn:   fn,
	}, nil
}

// StartEdit writes the row to a temp file, runs the editor and returns the
// edited document.
func (e *EditSession) StartEdit(content []byte) ([]byte, error) {
	if e.TempFile == "" {
		f, err := os.CreateTemp("", "gridbind-edit-*.json")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp file: %w", err)
		}
		e.TempFile = f.Name()
		_ = f.Close()
	}
	if err := os.WriteFile(e.TempFile, e.withError(content), 0o600); err != nil {
		return nil, err
	}

	exitCode, err := e.editFn(e.TempFile)
	if err != nil {
		return nil, fmt.Errorf("editor failed: %w", err)
	}
	if exitCode != 0 {
		return nil, ErrEditorCancelled
	}

	out, err := os.ReadFile(e.TempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}

	return stripErrorComment(out), nil
}

// withError prepends the pending error as a comment block.
func (e *EditSession) withError(content []byte) []byte {
	var buf bytes.Buffer
	if e.ErrorMsg != "" {
		buf.WriteString("// ERROR: " + e.ErrorMsg + "\n")
		buf.WriteString("// Fix the issue below and save, or save without changes to cancel.\n")
		buf.WriteString("// ---\n\n")
	}
	if gjson.ValidBytes(content) {
		content = pretty.Pretty(content)
	}
	buf.Write(content)

	return buf.Bytes()
}

// Apply replaces the row with the edited document.
func (e *EditSession) Apply(edited []byte) error {
	if !gjson.ValidBytes(edited) {
		return errors.New("invalid JSON")
	}
	patch, err := e.docs.Diff(e.Row, edited)
	if err != nil {
		return err
	}
	if len(patch) == 0 {
		return ErrNoChanges
	}

	return e.docs.Replace(e.Row, pretty.Ugly(edited))
}

// Cleanup removes the temporary file.
func (e *EditSession) Cleanup() {
	if e.TempFile != "" {
		_ = os.Remove(e.TempFile)
		e.TempFile = ""
	}
}

// SetError sets the error message for display on retry.
func (e *EditSession) SetError(msg string) {
	e.ErrorMsg = msg
}

// EditRow edits the current row of g as JSON in $EDITOR, suspending app
// while the editor runs.
func EditRow(app *tview.Application, g *grid.DataGrid) error {
	return editRow(g, func(path string) (int, error) {
		return spawnEditor(app, path)
	})
}

func editRow(g *grid.DataGrid, fn EditFunc) error {
	cm := g.CurrencyManager()
	if cm == nil {
		return grid.ErrNotBound
	}
	docs, ok := cm.List().(*list.Documents)
	if !ok {
		return ErrNotDocuments
	}
	if err := g.EndEdit(); err != nil {
		return err
	}

	session, err := NewEditSession(docs, cm.Position(), fn)
	if err != nil {
		return err
	}
	defer session.Cleanup()

	content := session.Original
	for {
		edited, err := session.StartEdit(content)
		if err != nil {
			return err
		}
		err = session.Apply(edited)
		switch {
		case errors.Is(err, ErrNoChanges) && session.ErrorMsg != "":
			return ErrEditorCancelled
		case errors.Is(err, ErrNoChanges):
			return ErrNoChanges
		case err != nil:
			session.SetError(err.Error())
			content = edited
			continue
		}

		return nil
	}
}

// spawnEditor suspends the TUI and launches the editor.
func spawnEditor(app *tview.Application, path string) (int, error) {
	var exitCode int
	suspended := app.Suspend(func() {
		cmd := exec.Command(getEditor(), path)
		cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr

		var exitErr *exec.ExitError
		switch err := cmd.Run(); {
		case errors.As(err, &exitErr):
			exitCode = exitErr.ExitCode()
		case err != nil:
			exitCode = 1
		}
	})
	if !suspended {
		return 1, errors.New("failed to suspend application")
	}

	return exitCode, nil
}

// getEditor returns the editor command to use.
// Checks $EDITOR, then $VISUAL, then falls back to vim or nano.
func getEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	if _, err := exec.LookPath("vim"); err == nil {
		return "vim"
	}
	return "nano"
}

// stripErrorComment removes the error comment block from the top of content.
func stripErrorComment(content []byte) []byte {
	lines := bytes.Split(content, []byte("\n"))
	startIdx := 0
	for i, line := range lines {
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		if bytes.HasPrefix(trimmed, []byte("//")) {
			startIdx = i + 1
			continue
		}
		break
	}
	if startIdx > 0 && startIdx < len(lines) {
		return bytes.Join(lines[startIdx:], []byte("\n"))
	}

	return content
}
