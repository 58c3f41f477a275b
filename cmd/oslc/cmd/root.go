// Package cmd implements the oslc driver's cobra command tree (spec.md §6.1).
// Everything here is external to the core: it shells out to osl.Parse and the
// emit/glsl/hlsl/msl packages, handles file I/O, and formats diagnostics.
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "oslc",
	Short: "OSL shading-language cross-compiler",
	Long: `oslc compiles OSL shader source to GLSL, HLSL, or MSL.

It also exposes the front-end stages individually for debugging:
tokens (lexer dump), ast (parsed-program dump), and preprocess
(comment-stripped source dump).`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
			Level(level).
			With().Timestamp().Logger()
	},
}

// Execute runs the root command, returning the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline stage diagnostics")
}
