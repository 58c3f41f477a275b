package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/osllang/osl"
)

var astInput string

var astCmd = &cobra.Command{
	Use:   "ast",
	Short: "Parse a source file and print the resulting AST",
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readInput(astInput)
		if err != nil {
			return err
		}
		log.Debug().Str("stage", "parse").Str("input", astInput).Msg("running")

		ctx, err := osl.Parse(source)
		if err != nil {
			fmt.Fprint(os.Stderr, formatDiagnostic(astInput, source, err))
			return err
		}
		fmt.Print(dumpProgram(ctx))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(astCmd)
	astCmd.Flags().StringVar(&astInput, "input", "", "source file (required)")
	astCmd.MarkFlagRequired("input")
}
