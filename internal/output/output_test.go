package output

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainPrinter(quiet bool) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewPrinter(&out, &errOut, false, quiet), &out, &errOut
}

func TestResolveColors(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("NO_COLOR", "")
	assert.False(t, ResolveColors(true), "NO_COLOR disables colours even when empty")
}

func TestResolveColorsDumbTerminal(t *testing.T) {
	t.Setenv("TERM", "dumb")
	assert.False(t, ResolveColors(true))
}

func TestPrinterPlain(t *testing.T) {
	p, out, errOut := plainPrinter(false)
	p.Success("saved %s", "shot-1.png")
	p.Warning("skipped %d", 2)
	p.Header("Presets")

	assert.Contains(t, out.String(), "[OK] saved shot-1.png")
	assert.Contains(t, out.String(), "Presets\n-------")
	assert.Equal(t, "[WARN] skipped 2\n", errOut.String())
	assert.Equal(t, "#112233", p.Swatch("#112233"))
}

func TestPrinterQuiet(t *testing.T) {
	p, out, errOut := plainPrinter(true)
	p.Info("hidden")
	p.Success("hidden")
	p.Warning("hidden")
	p.Header("hidden")
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())

	p.Error("shown")
	assert.Equal(t, "[ERROR] shown\n", errOut.String())
}

func TestFormatError(t *testing.T) {
	p, _, errOut := plainPrinter(false)
	p.FormatError(&CLIError{
		Summary:    "no valid images",
		Detail:     "notes.txt: unsupported file type",
		Suggestion: "pass PNG, JPEG or WEBP files",
	})
	assert.Equal(t, "[ERROR] no valid images\n  Cause: notes.txt: unsupported file type\n  Suggestion: pass PNG, JPEG or WEBP files\n", errOut.String())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitGeneral, ExitCode(errors.New("plain")))

	base := errors.New("disk full")
	err := fmt.Errorf("export: %w", &CLIError{Summary: "export failed", ExitCode: ExitExportError, Err: base})
	assert.Equal(t, ExitExportError, ExitCode(err))
	assert.ErrorIs(t, err, base)
}

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"ID", "SIZE"})
	table.AddRow("appstore-67", "1290x2796")
	table.AddRow("free", "natural")
	require.NoError(t, table.Render())

	assert.Contains(t, buf.String(), "appstore-67")
	assert.Contains(t, buf.String(), "1290x2796")
	assert.Contains(t, buf.String(), "free")
}
