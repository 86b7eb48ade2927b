package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/spektr-scatter/schema"
)

type discoverOpts struct {
	source sourceFlags
	chart  string
	format string
}

// discoverOutput is the JSON form of the discover command.
type discoverOutput struct {
	Chart      string              `json:"chart"`
	Rows       int                 `json:"rows"`
	Columns    []schema.ColumnInfo `json:"columns"`
	Suggestion schema.Assignment   `json:"suggestion"`
	Missing    []string            `json:"missing,omitempty"`
}

func (c *CLI) discoverCommand() *cobra.Command {
	opts := discoverOpts{}

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Classify a table's columns and suggest chart axes",
		Example: `  spektr-scatter discover -f cars.csv
  spektr-scatter discover -f cars.csv --chart bubble --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runDiscover(ctx, opts)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringVarP(&opts.chart, "chart", "c", schema.ChartScatter, "chart to suggest axes for")
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format: table, json, pretty")
	return cmd
}

func (c *CLI) runDiscover(ctx context.Context, opts discoverOpts) error {
	spec, err := schema.Lookup(opts.chart)
	if err != nil {
		return err
	}
	table, err := opts.source.load(ctx)
	if err != nil {
		return err
	}

	view := table.View()
	columns := schema.DiscoverColumns(view)
	suggestion := schema.Suggest(spec, columns)

	counts := make(map[string]int, len(suggestion))
	for axis, cols := range suggestion {
		counts[axis] = len(cols)
	}
	out := discoverOutput{
		Chart:      spec.Name,
		Rows:       view.Len(),
		Columns:    columns,
		Suggestion: suggestion,
		Missing:    schema.MissingAxes(spec, counts),
	}

	if opts.format == formatJSON || opts.format == formatPretty {
		return writeJSON(c.out, out, opts.format)
	}

	fmt.Fprintln(c.out, StyleTitle.Render(fmt.Sprintf("%d columns", len(columns)))+StyleDim.Render(fmt.Sprintf(" · %d rows", view.Len())))
	rows := make([][]string, len(columns))
	for i, col := range columns {
		rows[i] = []string{
			col.Name,
			col.Kind,
			StyleNumber.Render(strconv.Itoa(col.UniqueCount)),
			strconv.Itoa(col.NullCount),
			StyleDim.Render(strings.Join(col.SampleValues, ", ")),
		}
	}
	printTable(c.out, []string{"COLUMN", "KIND", "UNIQUE", "NULLS", "SAMPLES"}, rows)

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, StyleTitle.Render("Suggested "+spec.Name+" axes"))
	for _, axis := range spec.Axes {
		cols := suggestion[axis.Name]
		value := StyleDim.Render("(none)")
		if len(cols) > 0 {
			value = strings.Join(cols, ", ")
		}
		fmt.Fprintf(c.out, "  %-9s %s\n", axis.Name, value)
	}
	if len(out.Missing) > 0 {
		printWarning(c.out, "no suitable column for %s", strings.Join(out.Missing, ", "))
	}
	return nil
}
