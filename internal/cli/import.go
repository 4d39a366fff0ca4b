package cli

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/openapi"
)

const fetchTimeout = 30 * time.Second

func newImportCommand(a *app) *cobra.Command {
	var (
		operationID string
		outPath     string
		list        bool
	)
	cmd := &cobra.Command{
		Use:   "import <openapi document>",
		Short: "Create a form definition from an OpenAPI request body",
		Long: `Read an OpenAPI 3 document from a file or an http(s) URL and write the
request body of one operation as a YAML form definition.

Properties that no field type can represent are skipped and logged.`,
		Example: `  formkit import api.yaml --list
  formkit import api.yaml --operation createUser -o forms/create-user.yaml
  formkit import https://example.com/openapi.json --operation createUser`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openapi.ParseSource(args[0])
			if err != nil {
				return err
			}
			loader := openapi.NewLoader(openapi.WithHTTPFallback(fetchTimeout))
			data, err := loader.Load(cmd.Context(), src)
			if err != nil {
				return err
			}
			operations, err := openapi.Parse(cmd.Context(), data)
			if err != nil {
				return err
			}

			if list || operationID == "" {
				var buf bytes.Buffer
				for _, op := range operations {
					fmt.Fprintf(&buf, "%s\t%s %s\n", op.ID, op.Method, op.Path)
				}
				return writeOutput(cmd, "", buf.Bytes())
			}

			op, ok := openapi.Find(operations, operationID)
			if !ok {
				ids := make([]string, 0, len(operations))
				for _, candidate := range operations {
					ids = append(ids, candidate.ID)
				}
				return fmt.Errorf("cli: operation %q not found (available: %s)", operationID, strings.Join(ids, ", "))
			}
			for _, name := range op.Skipped {
				a.logger.WithFields(logrus.Fields{"operation": op.ID, "property": name}).Warn("formkit: skipping unsupported property")
			}

			out, err := yaml.Marshal(op.Definition())
			if err != nil {
				return fmt.Errorf("cli: encode definition: %w", err)
			}
			return writeOutput(cmd, outPath, out)
		},
	}
	cmd.Flags().StringVar(&operationID, "operation", "", "operation id to import")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&list, "list", false, "list operations with a request body")
	return cmd
}
