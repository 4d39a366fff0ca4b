package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit/pkg/renderers/tui"
)

func newRenderCommand(a *app) *cobra.Command {
	var (
		rendererName string
		outPath      string
		format       string
	)
	cmd := &cobra.Command{
		Use:   "render <definition>",
		Short: "Render a form definition",
		Long: `Render a YAML or JSON form definition with the named renderer.

The html renderer writes the form markup. The tui renderer fills the form
in the terminal and writes the submitted values in --format.`,
		Example: `  formkit render forms/signup.yaml
  formkit render forms/signup.yaml --renderer tui --format pretty
  formkit render forms/signup.yaml -o signup.html --theme-file themes.yaml --theme acme`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := parseOutputFormat(format)
			if err != nil {
				return err
			}
			return a.renderDefinition(cmd, args[0], rendererName, outputFormat, outPath)
		},
	}
	cmd.Flags().StringVarP(&rendererName, "renderer", "r", "html", "renderer to use (html or tui)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "tui output format (json, form or pretty)")
	return cmd
}

func newPromptCommand(a *app) *cobra.Command {
	var (
		outPath string
		format  string
	)
	cmd := &cobra.Command{
		Use:   "prompt <definition>",
		Short: "Fill a form definition in the terminal",
		Long: `Prompt for every field of a form definition, validate each answer
and write the submitted values.`,
		Example: `  formkit prompt forms/signup.yaml
  formkit prompt forms/signup.yaml --format form`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := parseOutputFormat(format)
			if err != nil {
				return err
			}
			return a.renderDefinition(cmd, args[0], "tui", outputFormat, outPath)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "output format (json, form or pretty)")
	return cmd
}

func parseOutputFormat(raw string) (tui.OutputFormat, error) {
	switch format := tui.OutputFormat(raw); format {
	case tui.OutputFormatJSON, tui.OutputFormatFormURLEncoded, tui.OutputFormatPrettyText:
		return format, nil
	default:
		return "", fmt.Errorf("cli: unknown output format %q (want json, form or pretty)", raw)
	}
}
