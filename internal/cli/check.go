package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// CheckSummary reports what a schema declares, for JSON output.
type CheckSummary struct {
	Schema    string `json:"schema"`
	Structs   int    `json:"structs"`
	Enums     int    `json:"enums"`
	Services  int    `json:"services"`
	Endpoints int    `json:"endpoints"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <schema>",
		Short: "Compile a schema without emitting anything",
		Long: `Parse and compile a schema file, including route compilation,
and report diagnostics. Nothing is written.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}
}

func runCheck(opts *RootOptions, schemaPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
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

	summary := CheckSummary{
		Schema:   schemaPath,
		Structs:  len(result.Module.Structs()),
		Enums:    len(result.Module.Enums()),
		Services: len(result.Module.Services()),
	}
	for _, svc := range result.Table.Services {
		summary.Endpoints += len(svc.Routes)
	}

	if formatter.Format == "json" {
		return formatter.Success(summary)
	}

	fmt.Fprintf(formatter.Writer, "%s %s: %d struct(s), %d enum(s), %d service(s), %d endpoint(s)\n",
		color.GreenString("✓"), schemaPath,
		summary.Structs, summary.Enums, summary.Services, summary.Endpoints)

	if opts.Verbose {
		for _, svc := range result.Table.Services {
			fmt.Fprintf(formatter.Writer, "  service %s\n", svc.Name)
			for _, route := range svc.Routes {
				fmt.Fprintf(formatter.Writer, "    %s %s\n", route.Method, route.Pattern())
			}
		}
	}
	return nil
}
