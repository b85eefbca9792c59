package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

// versionCmd prints detailed version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run:   printVersion,
}

// printVersion prints version information
func printVersion(cmd *cobra.Command, args []string) {
	cmd.Printf("sage by Fyrsmith Labs\n")
	cmd.Printf("Version:    %s\n", version)
	cmd.Printf("Commit:     %s\n", gitCommit)
	cmd.Printf("Build Date: %s\n", buildDate)
}
