package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/loader"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
)

// formOptions returns the definition's options plus the command's logger
// and theme. A theme named in the definition wins over --theme.
func (a *app) formOptions(def loader.Definition) ([]form.Option, error) {
	opts, err := def.FormOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, form.WithLogger(a.logger))

	selector, err := a.themeSelector()
	if err != nil {
		return nil, err
	}
	if selector == nil {
		if def.Theme != "" {
			a.logger.WithField("theme", def.Theme).Debug("formkit: no theme file, using default classes")
		}
		return opts, nil
	}
	name, variant := a.v.GetString("theme.name"), a.v.GetString("theme.variant")
	if def.Theme != "" {
		name, variant = def.Theme, def.Variant
	}
	return append(opts, form.WithThemeSelector(selector, name, variant)), nil
}

func renderOptions(def loader.Definition) render.RenderOptions {
	return render.RenderOptions{
		Action:      def.Action,
		Method:      def.Method,
		Values:      def.Defaults,
		Layout:      def.Layout,
		Columns:     def.Columns,
		SubmitLabel: def.SubmitLabel,
	}
}

// registry builds the html and tui renderers for one definition. Prompt
// messages go to info so the collected values stay alone on stdout.
func (a *app) registry(def loader.Definition, format tui.OutputFormat, info io.Writer) (*render.Registry, error) {
	opts, err := a.formOptions(def)
	if err != nil {
		return nil, err
	}

	driver := a.driver
	if driver == nil {
		driver = tui.NewSurveyDriver(info)
	}
	terminal, err := tui.New(
		tui.WithPromptDriver(driver),
		tui.WithOutputFormat(format),
		tui.WithTitle(def.Title),
		tui.WithFormOptions(opts...),
	)
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(form.NewHTMLRenderer(opts...), terminal)
}

func (a *app) renderDefinition(cmd *cobra.Command, path, rendererName string, format tui.OutputFormat, outPath string) error {
	def, err := loader.LoadFile(path)
	if err != nil {
		return err
	}
	registry, err := a.registry(def, format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	renderer, err := registry.Get(rendererName)
	if err != nil {
		return err
	}

	a.logger.WithFields(logrus.Fields{"form": def.ID, "renderer": rendererName}).Debug("formkit: rendering")
	out, err := renderer.Render(cmd.Context(), def.Fields, renderOptions(def))
	if err != nil {
		return fmt.Errorf("cli: render %s: %w", def.ID, err)
	}
	return writeOutput(cmd, outPath, out)
}

// writeOutput writes to path, or to the command's stdout when path is
// empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
		if len(data) > 0 && data[len(data)-1] != '\n' {
			_, err := io.WriteString(cmd.OutOrStdout(), "\n")
			return err
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cli: write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Written to %s\n", path)
	return nil
}
