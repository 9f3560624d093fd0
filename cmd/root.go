package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lcsh-assistant",
		Short: "LLM-assisted Library of Congress Subject Heading suggestions",
		Long: `LCSH Assistant suggests Library of Congress Subject Headings for
bibliographic descriptions using LLMs, then verifies every suggestion
against the id.loc.gov authority registry so catalogers can tell real
headings from plausible-sounding inventions.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSuggestCmd())
	cmd.AddCommand(newEvalCmd())

	return cmd
}
