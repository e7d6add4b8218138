package cmd

import (
	"runtime/debug"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the build version, the Go version used to build this tool and the supported output formats.",
		Run: func(cmd *cobra.Command, _ []string) {
			label := color.New(color.Bold).SprintFunc()

			info, ok := debug.ReadBuildInfo()
			if !ok || info.Main.Version == "" {
				cmd.Println(label("version:"), "unknown")
				return
			}

			cmd.Println(label("fuzzgen version"), "\t", info.Main.Version)
			cmd.Println(label("go version"), "\t", info.GoVersion)
			cmd.Println(label("formats"), "\t", formatsHelp())
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
