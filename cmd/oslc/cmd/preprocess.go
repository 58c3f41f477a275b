package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/osllang/osl"
)

var preprocessInput string

var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Strip comments and line continuations, then print the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readInput(preprocessInput)
		if err != nil {
			return err
		}
		log.Debug().Str("stage", "preprocess").Str("input", preprocessInput).Msg("running")

		out, err := osl.Preprocess(source)
		if err != nil {
			fmt.Fprint(os.Stderr, formatDiagnostic(preprocessInput, source, err))
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(preprocessCmd)
	preprocessCmd.Flags().StringVar(&preprocessInput, "input", "", "source file (required)")
	preprocessCmd.MarkFlagRequired("input")
}

func readInput(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", wrapStage("read input", err)
	}
	return string(data), nil
}
