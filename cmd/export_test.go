package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shotframe/internal/output"
)

func TestExport_Single(t *testing.T) {
	dir := setupCmdTest(t)
	a := writePNG(t, filepath.Join(dir, "a.png"), 40, 30)

	stdout, _, err := run(t, "export", a)
	require.NoError(t, err)

	path := filepath.Join(dir, "out", "shotframe-1.png")
	assert.FileExists(t, path)
	assert.Contains(t, stdout, "[OK] ")
	assert.Contains(t, stdout, "shotframe-1.png")
}

func TestExport_IndexNamesFileByPosition(t *testing.T) {
	dir := setupCmdTest(t)
	a := writePNG(t, filepath.Join(dir, "a.png"), 40, 30)
	b := writePNG(t, filepath.Join(dir, "b.png"), 60, 30)

	_, _, err := run(t, "export", a, b, "--index", "2", "--prefix", "store")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "out", "store-2.png"))
	assert.NoFileExists(t, filepath.Join(dir, "out", "store-1.png"))
}

func TestExport_All(t *testing.T) {
	dir := setupCmdTest(t)
	var files []string
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		files = append(files, writePNG(t, filepath.Join(dir, name), 40, 30))
	}
	out := filepath.Join(dir, "framed")

	stdout, _, err := run(t, append([]string{"export", "--all", "--out", out}, files...)...)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		assert.FileExists(t, filepath.Join(out, fmt.Sprintf("shotframe-%d.png", i)))
	}
	assert.Contains(t, stdout, "[1/3]")
	assert.Contains(t, stdout, "[3/3]")
	assert.Contains(t, stdout, "exported 3 file(s)")
}

func TestExport_StorePresetGivesExactSize(t *testing.T) {
	dir := setupCmdTest(t)
	a := writePNG(t, filepath.Join(dir, "a.png"), 60, 120)

	_, _, err := run(t, "export", a, "--style", "phone", "--preset", "appstore-67")
	require.NoError(t, err)

	img := decodePNG(t, filepath.Join(dir, "out", "shotframe-1.png"))
	assert.Equal(t, 1290, img.Bounds().Dx())
	assert.Equal(t, 2796, img.Bounds().Dy())
}

func TestExport_PresetIgnoredOutsidePhone(t *testing.T) {
	dir := setupCmdTest(t)
	a := writePNG(t, filepath.Join(dir, "a.png"), 60, 120)

	_, _, err := run(t, "export", a, "--style", "minimal", "--preset", "appstore-67")
	require.NoError(t, err)

	img := decodePNG(t, filepath.Join(dir, "out", "shotframe-1.png"))
	assert.NotEqual(t, 1290, img.Bounds().Dx())
}

func TestExport_PaddingChangesSize(t *testing.T) {
	dir := setupCmdTest(t)
	a := writePNG(t, filepath.Join(dir, "a.png"), 60, 40)

	_, _, err := run(t, "export", a, "--style", "minimal", "--padding", "8", "--prefix", "narrow")
	require.NoError(t, err)
	resetFlags(exportCmd)
	_, _, err = run(t, "export", a, "--style", "minimal", "--padding", "500", "--prefix", "wide")
	require.NoError(t, err)

	narrow := decodePNG(t, filepath.Join(dir, "out", "narrow-1.png"))
	wide := decodePNG(t, filepath.Join(dir, "out", "wide-1.png"))
	// 500 clamps to 64: both sides grow by 56px at pixel ratio 2.
	assert.Equal(t, narrow.Bounds().Dx()+2*2*56, wide.Bounds().Dx())
}

func TestExport_SkipsRejectedFiles(t *testing.T) {
	dir := setupCmdTest(t)
	a := writePNG(t, filepath.Join(dir, "a.png"), 40, 30)
	notes := filepath.Join(dir, "notes.txt")
	writeFile(t, notes, []byte("not an image"))

	_, stderr, err := run(t, "export", notes, a)
	require.NoError(t, err)

	assert.Contains(t, stderr, "[WARN] skipping notes.txt")
	assert.FileExists(t, filepath.Join(dir, "out", "shotframe-1.png"))
}

func TestExport_Errors(t *testing.T) {
	tests := []struct {
		name string
		args func(dir string) []string
		code int
	}{
		{
			name: "no usable images",
			args: func(dir string) []string {
				p := filepath.Join(dir, "notes.txt")
				_ = os.WriteFile(p, []byte("text"), 0o644)
				return []string{"export", p}
			},
			code: output.ExitInputError,
		},
		{
			name: "missing file",
			args: func(dir string) []string {
				return []string{"export", filepath.Join(dir, "missing.png")}
			},
			code: output.ExitInputError,
		},
		{
			name: "unknown style",
			args: func(dir string) []string {
				return []string{"export", filepath.Join(dir, "a.png"), "--style", "amiga"}
			},
			code: output.ExitUsageError,
		},
		{
			name: "bad background",
			args: func(dir string) []string {
				return []string{"export", filepath.Join(dir, "a.png"), "--background", "teal"}
			},
			code: output.ExitUsageError,
		},
		{
			name: "index out of range",
			args: func(dir string) []string {
				return []string{"export", filepath.Join(dir, "a.png"), "--index", "3"}
			},
			code: output.ExitUsageError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupCmdTest(t)
			writePNG(t, filepath.Join(dir, "a.png"), 40, 30)

			_, _, err := run(t, tt.args(dir)...)
			require.Error(t, err)
			assert.Equal(t, tt.code, output.ExitCode(err))
			assert.NoDirExists(t, filepath.Join(dir, "out"))
		})
	}
}

func TestExport_InvalidConfig(t *testing.T) {
	dir := setupCmdTest(t)
	writeFile(t, filepath.Join(dir, ".shotframe.yaml"), []byte("defaults:\n  theme: sepia\n"))
	a := writePNG(t, filepath.Join(dir, "a.png"), 40, 30)

	_, _, err := run(t, "export", a)
	require.Error(t, err)
	assert.Equal(t, output.ExitConfigError, output.ExitCode(err))
}

func TestPatchFromFlags(t *testing.T) {
	setupCmdTest(t)
	flags := exportCmd.Flags()
	require.NoError(t, flags.Set("gradient", "Ocean"))
	require.NoError(t, flags.Set("radius", "-4"))
	require.NoError(t, flags.Set("scale", "70"))

	p, err := patchFromFlags(exportCmd)
	require.NoError(t, err)

	require.NotNil(t, p.Gradient)
	assert.Equal(t, "ocean", *p.Gradient)
	require.NotNil(t, p.UseCustomBackground)
	assert.False(t, *p.UseCustomBackground)
	assert.Equal(t, 0, *p.CornerRadius)
	assert.Equal(t, 70, *p.ImageScale)
	assert.Nil(t, p.Style)
	assert.Nil(t, p.Padding)
	assert.Nil(t, p.StorePreset)
}

func TestExport_MissingPathDoesNotDropOthers(t *testing.T) {
	dir := setupCmdTest(t)
	a := writePNG(t, filepath.Join(dir, "a.png"), 40, 30)

	_, stderr, err := run(t, "export", a, filepath.Join(dir, "missing.png"))
	require.NoError(t, err)

	assert.Contains(t, stderr, "[WARN] skipping missing.png")
	assert.FileExists(t, filepath.Join(dir, "out", "shotframe-1.png"))
}
