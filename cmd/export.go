package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"shotframe/internal/batch"
	"shotframe/internal/export"
	"shotframe/internal/frame"
	"shotframe/internal/output"
	"shotframe/internal/upload"
)

var exportCmd = &cobra.Command{
	Use:   "export FILE...",
	Short: "Frame screenshots and write PNG files without the editor",
	Long: `Frame one or more screenshots with the configured defaults and export them.

Files are loaded into a batch in the order given (at most 10). Without --all
only the image at --index is exported. Output files are named
<prefix>-<position>.png in the output directory.

Examples:
  shotframe export shot.png                          # Export with defaults
  shotframe export a.png b.png c.png --all           # Export all three
  shotframe export a.png b.png --index 2 --style phone --preset appstore-67
  shotframe export shot.png --clipboard --theme dark # Copy instead of saving`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().Bool("all", false, "export every image in order")
	exportCmd.Flags().Bool("clipboard", false, "copy the image to the clipboard instead of saving")
	exportCmd.Flags().Int("index", 1, "1-based position of the image to export")
	exportCmd.Flags().StringP("out", "o", "", "output directory (default from config)")
	exportCmd.Flags().String("prefix", "", "output file prefix (default from config)")
	exportCmd.Flags().String("style", "", "frame style: macos, windows, minimal, browser, phone, tablet")
	exportCmd.Flags().String("theme", "", "frame theme: light or dark")
	exportCmd.Flags().String("gradient", "", "background gradient name")
	exportCmd.Flags().String("background", "", "solid background colour (#rgb or #rrggbb)")
	exportCmd.Flags().Int("padding", 0, "padding in pixels (8-64)")
	exportCmd.Flags().Int("radius", 0, "corner radius in pixels (0-32)")
	exportCmd.Flags().Int("scale", 0, "image scale in percent (50-100)")
	exportCmd.Flags().String("preset", "", "store size for phone frames (see 'shotframe presets')")

	exportCmd.MarkFlagsMutuallyExclusive("all", "clipboard")
}

func runExport(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)
	flags := cmd.Flags()

	if out, _ := flags.GetString("out"); out != "" {
		cfg.Output.Dir = out
	}
	if prefix, _ := flags.GetString("prefix"); prefix != "" {
		cfg.Output.Prefix = prefix
	}
	patch, err := patchFromFlags(cmd)
	if err != nil {
		return &output.CLIError{
			Summary:    "invalid frame option",
			Detail:     err.Error(),
			Suggestion: "Run 'shotframe presets' to see valid names",
			ExitCode:   output.ExitUsageError,
			Err:        err,
		}
	}

	clip, _ := flags.GetBool("clipboard")
	s, err := newSession(logger, clip)
	if err != nil {
		return err
	}
	defer s.Close()

	images, err := upload.LoadPaths(cmd.Context(), args)
	var invalid *upload.ValidationError
	if err != nil && !errors.As(err, &invalid) {
		return inputError(err)
	}
	if invalid != nil {
		for _, r := range invalid.Rejected {
			if r.Type != "" {
				printer.Warning("skipping %s: %v (%s)", r.Name, r.Err, r.Type)
			} else {
				printer.Warning("skipping %s: %v", r.Name, r.Err)
			}
		}
	}
	if len(images) == 0 {
		return inputError(upload.ErrEmpty)
	}

	added, err := s.AddImages(images)
	if err != nil {
		return err
	}
	if dropped := len(images) - added; dropped > 0 {
		printer.Warning("a batch holds %d images, ignoring the last %d", batch.Capacity, dropped)
	}
	if _, err := s.Edit(patch); err != nil {
		return err
	}

	all, _ := flags.GetBool("all")
	if !all {
		index, _ := flags.GetInt("index")
		if index < 1 || index > s.Len() {
			return &output.CLIError{
				Summary:  fmt.Sprintf("--index %d is out of range", index),
				Detail:   fmt.Sprintf("the batch has %d image(s)", s.Len()),
				ExitCode: output.ExitUsageError,
			}
		}
		if err := s.SetActiveIndex(index - 1); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	var res export.Result
	switch {
	case clip:
		res, err = s.Copy(ctx)
	case all:
		res, err = s.ExportAll(ctx, func(p export.Progress) {
			printer.Success("[%d/%d] %s", p.Index+1, p.Total, p.Location)
		})
	default:
		res, err = s.Export(ctx)
	}
	if err != nil {
		return exportError(err)
	}

	switch {
	case clip:
		printer.Success("copied %dx%d image to the clipboard", res.Width, res.Height)
	case all:
		printer.Info("exported %d file(s) at %dx%d", len(res.Locations), res.Width, res.Height)
	default:
		printer.Success("%s (%dx%d)", res.Locations[0], res.Width, res.Height)
	}
	return nil
}

// patchFromFlags collects the frame options that were set on the command
// line. Numeric values are clamped to their allowed ranges.
func patchFromFlags(cmd *cobra.Command) (frame.Patch, error) {
	flags := cmd.Flags()
	var p frame.Patch

	if flags.Changed("style") {
		v, _ := flags.GetString("style")
		style, err := frame.ParseStyle(v)
		if err != nil {
			return p, err
		}
		p.Style = &style
	}
	if flags.Changed("theme") {
		v, _ := flags.GetString("theme")
		theme, err := frame.ParseTheme(v)
		if err != nil {
			return p, err
		}
		p.Theme = &theme
	}
	if flags.Changed("gradient") {
		v, _ := flags.GetString("gradient")
		g, err := frame.LookupGradient(v)
		if err != nil {
			return p, err
		}
		p.Gradient = &g.Name
		p.UseCustomBackground = frame.Ptr(false)
	}
	if flags.Changed("background") {
		v, _ := flags.GetString("background")
		if _, err := frame.ParseHexColor(v); err != nil {
			return p, err
		}
		p.BackgroundColor = &v
		p.UseCustomBackground = frame.Ptr(true)
	}
	if flags.Changed("padding") {
		v, _ := flags.GetInt("padding")
		p.Padding = frame.Ptr(frame.ClampPadding(v))
	}
	if flags.Changed("radius") {
		v, _ := flags.GetInt("radius")
		p.CornerRadius = frame.Ptr(frame.ClampCornerRadius(v))
	}
	if flags.Changed("scale") {
		v, _ := flags.GetInt("scale")
		p.ImageScale = frame.Ptr(frame.ClampImageScale(v))
	}
	if flags.Changed("preset") {
		v, _ := flags.GetString("preset")
		preset, err := frame.LookupPreset(v)
		if err != nil {
			return p, err
		}
		p.StorePreset = &preset
	}
	return p, nil
}

func exportError(err error) error {
	cliErr := &output.CLIError{
		Summary:  "export failed",
		Detail:   err.Error(),
		ExitCode: output.ExitExportError,
		Err:      err,
	}
	if errors.Is(err, export.ErrClipboardUnsupported) {
		cliErr.Suggestion = "Install wl-copy (Wayland) or xclip (X11), or export to a file instead"
	}
	return cliErr
}
