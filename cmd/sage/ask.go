package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/sage/internal/resolver"
)

func init() {
	rootCmd.AddCommand(askCmd)
}

// askCmd answers a single question without starting a session
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question and exit",
	Long: `Ask answers one question and exits without starting an interactive
session. Equations and conditions are evaluated the same way they are
in a session. Unknown questions are reported but nothing is learned.

Examples:
  # Look up an answer
  sage ask what is the capital of france

  # Solve an equation
  sage ask "x + 2 = 5"

  # Evaluate a condition
  sage ask "10 == 10"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

// runAsk handles the ask command
func runAsk(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	question := strings.Join(args, " ")
	result := a.pipeline.Resolve(question)

	switch result.Source {
	case resolver.SourceEquation:
		cmd.Println("The solution is: " + result.Answer)
	case resolver.SourceCondition:
		cmd.Println(result.Answer)
	case resolver.SourceUnknown:
		cmd.Printf("I don't know the answer to '%s'.\n", result.TeachKey)
	default:
		cmd.Println("The answer is: " + result.Answer)
	}
	return nil
}
