package cmd

import (
	"encoding/json"
	"runtime"

	"github.com/spf13/cobra"

	"shotframe/internal/output"
)

var (
	commit    = "unknown"
	buildTime = "unknown"
)

// SetBuildInfo sets the commit hash and build time
func SetBuildInfo(c, bt string) {
	commit = c
	buildTime = bt
}

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Built     string `json:"built"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
	Config    string `json:"config"`
	OutputDir string `json:"outputDir"`
	LogFile   string `json:"logFile"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the version and build information, together with the config file,
output directory and editor log file this invocation resolved to.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().Bool("short", false, "print version string only")
	versionCmd.Flags().Bool("json", false, "output as JSON")
}

func runVersion(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	if short, _ := cmd.Flags().GetBool("short"); short {
		_, err := w.Write([]byte(version + "\n"))
		return err
	}

	configFile := cfg.File
	if configFile == "" {
		configFile = "(defaults)"
	}
	info := versionInfo{
		Version:   version,
		Commit:    commit,
		Built:     buildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Config:    configFile,
		OutputDir: cfg.Output.Dir,
		LogFile:   cfg.Logging.File,
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	printer := newPrinter(cmd)
	printer.Info("shotframe %s", printer.Bold(info.Version))
	table := output.NewTable(w, []string{"FIELD", "VALUE"})
	table.AddRow("commit", info.Commit)
	table.AddRow("built", info.Built)
	table.AddRow("go version", info.GoVersion)
	table.AddRow("platform", info.Platform)
	table.AddRow("config", info.Config)
	table.AddRow("output dir", info.OutputDir)
	table.AddRow("log file", info.LogFile)
	return table.Render()
}
