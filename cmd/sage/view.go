package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(viewCmd)
}

// viewCmd lists everything in the knowledge base
var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "List every question and answer in the knowledge base",
	Args:  cobra.NoArgs,
	RunE:  runView,
}

// runView handles the view command
func runView(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	cmd.Println("Here's what I know:")
	for _, e := range a.store.Entries() {
		cmd.Printf("Q: %s\nA: %s\n\n", e.Question, e.Answer)
	}
	return nil
}
