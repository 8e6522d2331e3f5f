package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shotframe/internal/frame"
	"shotframe/internal/output"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List frame styles, gradients and store sizes",
	Long: `List the values accepted by the frame options of the editor, the export
command and the defaults section of the config file.

Store sizes only take effect with the phone frame.`,
	Args: cobra.NoArgs,
	RunE: runPresets,
}

func init() {
	rootCmd.AddCommand(presetsCmd)

	presetsCmd.Flags().Bool("json", false, "output as JSON")
}

type presetsInfo struct {
	Styles    []styleInfo    `json:"styles"`
	Gradients []gradientInfo `json:"gradients"`
	Stores    []storeInfo    `json:"storeSizes"`
}

type styleInfo struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

type gradientInfo struct {
	Name  string   `json:"name"`
	Stops []string `json:"stops"`
}

type storeInfo struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func collectPresets() presetsInfo {
	var info presetsInfo
	for _, s := range frame.Styles {
		info.Styles = append(info.Styles, styleInfo{Name: s.String(), Label: s.Label()})
	}
	for _, g := range frame.Gradients {
		info.Gradients = append(info.Gradients, gradientInfo{Name: g.Name, Stops: g.Stops})
	}
	info.Stores = append(info.Stores, storeInfo{ID: frame.PresetFree.ID, Label: frame.PresetFree.Label})
	for _, p := range frame.StorePresets {
		info.Stores = append(info.Stores, storeInfo{ID: p.ID, Label: p.Label, Width: p.Width, Height: p.Height})
	}
	return info
}

func runPresets(cmd *cobra.Command, args []string) error {
	info := collectPresets()

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	printer := newPrinter(cmd)
	w := cmd.OutOrStdout()

	printer.Header("Frame styles")
	styles := output.NewTable(w, []string{"NAME", "LABEL"})
	for _, s := range info.Styles {
		styles.AddRow(s.Name, s.Label)
	}
	if err := styles.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	printer.Header("Gradients")
	gradients := output.NewTable(w, []string{"NAME", "STOPS"})
	for _, g := range info.Gradients {
		swatches := make([]string, len(g.Stops))
		for i, stop := range g.Stops {
			swatches[i] = printer.Swatch(stop)
		}
		gradients.AddRow(g.Name, strings.Join(swatches, " "))
	}
	if err := gradients.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	printer.Header("Store sizes")
	stores := output.NewTable(w, []string{"ID", "LABEL", "SIZE"})
	for _, p := range info.Stores {
		size := printer.Dim("natural")
		if p.Width > 0 {
			size = fmt.Sprintf("%dx%d", p.Width, p.Height)
		}
		stores.AddRow(p.ID, p.Label, size)
	}
	return stores.Render()
}
