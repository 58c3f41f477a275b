package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/osllang/osl"
)

var (
	buildInput         string
	buildFormat        string
	buildOutput        string
	buildOutputVersion int
	buildProgram       string
	buildMain          string
	buildWhitespaces   bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile OSL source to a target shader dialect",
	RunE:  runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&buildInput, "input", "", "source file (required)")
	buildCmd.Flags().StringVar(&buildFormat, "format", "", "target dialect: hlsl|glsl|msl (required)")
	buildCmd.Flags().StringVar(&buildOutput, "output", "", "output file (default: stdout)")
	buildCmd.Flags().IntVar(&buildOutputVersion, "output-version", 460, "target dialect version (GLSL only)")
	buildCmd.Flags().StringVar(&buildProgram, "program", "", "shader stage: fragment|vertex (required)")
	buildCmd.Flags().StringVar(&buildMain, "main", "", "entry-point function name (required)")
	buildCmd.Flags().BoolVar(&buildWhitespaces, "whitespaces", false, "pretty-print emitter output")

	buildCmd.MarkFlagRequired("input")
	buildCmd.MarkFlagRequired("format")
	buildCmd.MarkFlagRequired("program")
	buildCmd.MarkFlagRequired("main")
}

func runBuild(cmd *cobra.Command, args []string) error {
	switch osl.Stage(buildProgram) {
	case osl.StageFragment, osl.StageVertex:
	default:
		return fmt.Errorf("--program must be fragment or vertex, got %q", buildProgram)
	}

	source, err := readInput(buildInput)
	if err != nil {
		return err
	}

	log.Debug().
		Str("stage", "parse").
		Str("input", buildInput).
		Msg("running")

	ctx, err := osl.Parse(source)
	if err != nil {
		fmt.Fprint(os.Stderr, formatDiagnostic(buildInput, source, err))
		return err
	}

	log.Debug().
		Str("stage", "emit").
		Str("format", buildFormat).
		Int("output-version", buildOutputVersion).
		Str("main", buildMain).
		Msg("running")

	emitter, err := osl.NewEmitter(ctx, osl.Dialect(buildFormat), buildOutputVersion, buildMain)
	if err != nil {
		return err
	}

	out, err := emitter.Output(buildWhitespaces)
	if err != nil {
		return wrapStage("emit", err)
	}

	if buildOutput == "" {
		fmt.Println(out)
		return nil
	}

	if err := os.WriteFile(buildOutput, []byte(out), 0o644); err != nil {
		return wrapStage("write output", err)
	}
	log.Debug().Str("output", buildOutput).Msg("wrote output")
	return nil
}
