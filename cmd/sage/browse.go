package main

import (
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/sage/internal/browse"
)

func init() {
	rootCmd.AddCommand(browseCmd)
}

// browseCmd opens the interactive knowledge browser
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the knowledge base in a full-screen list",
	Long: `Browse opens a full-screen, filterable list of everything in the
knowledge base. Type / to filter, and q to quit.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

// runBrowse handles the browse command
func runBrowse(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	return browse.Run(a.store.Entries())
}
