package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/atotto/clipboard"
)

var ErrClipboardUnsupported = errors.New("no clipboard available")

// SystemClipboard writes PNG images with the platform's image-aware tool.
// When none is installed it falls back to a data URI as text.
type SystemClipboard struct {
	lookPath     func(string) (string, error)
	run          func(ctx context.Context, stdin []byte, name string, args ...string) error
	writeAll     func(string) error
	getenv       func(string) string
	goos         string
	textFallback bool
}

func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{
		lookPath:     exec.LookPath,
		run:          runCommand,
		writeAll:     clipboard.WriteAll,
		getenv:       os.Getenv,
		goos:         runtime.GOOS,
		textFallback: !clipboard.Unsupported,
	}
}

func (c *SystemClipboard) WriteImage(ctx context.Context, png []byte) error {
	switch c.goos {
	case "darwin":
		if _, err := c.lookPath("osascript"); err == nil {
			return c.writeDarwin(ctx, png)
		}
	case "linux", "freebsd", "openbsd", "netbsd":
		if c.getenv("WAYLAND_DISPLAY") != "" {
			if _, err := c.lookPath("wl-copy"); err == nil {
				return c.run(ctx, png, "wl-copy", "--type", "image/png")
			}
		}
		if _, err := c.lookPath("xclip"); err == nil {
			return c.run(ctx, png, "xclip", "-selection", "clipboard", "-t", "image/png", "-i")
		}
	}

	if !c.textFallback {
		return ErrClipboardUnsupported
	}
	return c.writeAll("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}

// osascript cannot read stdin as image data, so the PNG goes through a
// temporary file.
func (c *SystemClipboard) writeDarwin(ctx context.Context, png []byte) error {
	dir, err := os.MkdirTemp("", "shotframe-clip")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "clip.png")
	if err := os.WriteFile(path, png, 0o600); err != nil {
		return err
	}
	script := fmt.Sprintf("set the clipboard to (read (POSIX file %q) as «class PNGf»)", path)
	return c.run(ctx, nil, "osascript", "-e", script)
}

func runCommand(ctx context.Context, stdin []byte, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
