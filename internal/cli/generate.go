package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/49nord/humble/internal/emit"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Backend string
	Output  string
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <schema>",
		Short: "Compile a schema and emit a backend artifact",
		Long: `Compile a schema file and write the backend-neutral JSON artifact
for one backend. On any compile error nothing is written.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Backend, "backend", "b", "server", "backend to emit (server|client|docs)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (default stdout)")

	return cmd
}

func runGenerate(opts *GenerateOptions, schemaPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	backend, err := emit.ParseBackend(opts.Backend)
	if err != nil {
		return NewExitError(ExitCommandError, err.Error())
	}

	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return NewExitError(ExitCommandError, err.Error())
	}

	result, err := LoadSchema(schemaPath, cfg)
	if err != nil {
		diag := Diagnose(schemaPath, err)
		_ = formatter.Error(diag)
		return NewExitError(ExitSchemaError, diag.Message)
	}
	formatter.VerboseLog("compiled %s: %d declaration(s)", schemaPath, len(result.Module.Decls()))

	emitter, err := emit.New(result.Module)
	if err != nil {
		diag := Diagnose(schemaPath, err)
		_ = formatter.Error(diag)
		return NewExitError(ExitSchemaError, diag.Message)
	}

	data, err := emitter.Marshal(backend)
	if err != nil {
		diag := Diagnose(schemaPath, err)
		_ = formatter.Error(diag)
		return NewExitError(ExitCommandError, diag.Message)
	}

	if opts.Output == "" {
		_, err := formatter.Writer.Write(data)
		return err
	}
	if err := os.WriteFile(opts.Output, data, 0644); err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("writing %s: %v", opts.Output, err))
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]string{
			"schema":  schemaPath,
			"backend": string(backend),
			"output":  opts.Output,
		})
	}
	fmt.Fprintf(formatter.Writer, "%s wrote %s artifact to %s\n",
		color.GreenString("✓"), backend, opts.Output)
	return nil
}
