package cli

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/tidydag/pkg/errors"
	dagio "github.com/matzehuels/tidydag/pkg/io"
)

type convertOpts struct {
	graph  graphFlags
	to     string
	output string
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	opts := convertOpts{to: string(dagio.FormatYAML)}

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Rewrite a graph in another input format",
		Long: `Read a graph and write the same description in another format.
Bidirected edges, latent and promoted nodes, labels and coordinates are
preserved. HCL can be read but not written.`,
		Example: `  tidydag convert dagify.dag --to json
  tidydag convert smoking.yaml --to formula -o smoking.dag`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	opts.graph.bind(cmd)
	cmd.Flags().StringVarP(&opts.to, "to", "t", opts.to, "output format: formula, json, yaml, toml")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func (c *CLI) runConvert(ctx context.Context, w io.Writer, input string, o convertOpts) error {
	format, err := dagio.ParseFormat(o.to)
	if err != nil {
		return err
	}
	if format == dagio.FormatHCL {
		return errs.New(errs.ErrCodeUnsupported, "hcl output is not supported (use formula, json, yaml or toml)")
	}

	opts, err := c.options(input, o.graph)
	if err != nil {
		return err
	}
	runner, err := c.newRunner()
	if err != nil {
		return err
	}
	defer runner.Close()

	g, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := dagio.Write(&buf, g, format); err != nil {
		return err
	}
	if o.output == "" {
		_, err := w.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(o.output, buf.Bytes(), 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "write %s", o.output)
	}
	printSuccess(w, "Converted %s to %s", input, format)
	printFile(w, o.output)
	return nil
}
