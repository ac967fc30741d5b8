package cmd

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printVersionInfo(cmd.OutOrStdout())
	},
}

// Set at build time with -ldflags.
var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = ""
)

func printVersionInfo(w io.Writer) {
	fmt.Fprintf(w, "shield version %s\n", version)
	if buildDate != "unknown" {
		fmt.Fprintf(w, "Build date: %s\n", buildDate)
	}
	if gitCommit != "" {
		fmt.Fprintf(w, "Git commit: %s\n", gitCommit)
	}
	fmt.Fprintf(w, "Go version: %s\n", runtime.Version())
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		fmt.Fprintf(w, "Module version: %s\n", info.Main.Version)
	}
	fmt.Fprintf(w, "Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
