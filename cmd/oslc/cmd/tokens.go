package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/osllang/osl"
)

var tokensInput string

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Tokenize a source file and print the resulting token stream",
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readInput(tokensInput)
		if err != nil {
			return err
		}
		log.Debug().Str("stage", "tokenize").Str("input", tokensInput).Msg("running")

		toks, err := osl.Tokenize(source)
		if err != nil {
			fmt.Fprint(os.Stderr, formatDiagnostic(tokensInput, source, err))
			return err
		}
		for _, t := range toks {
			fmt.Println(t.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.Flags().StringVar(&tokensInput, "input", "", "source file (required)")
	tokensCmd.MarkFlagRequired("input")
}
