package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/spektr-org/spektr-scatter/engine"
	"github.com/spektr-org/spektr-scatter/helpers"
	"github.com/spektr-org/spektr-scatter/preview"
	"github.com/spektr-org/spektr-scatter/schema"
)

// sourceFlags selects the input table; shared by render and discover.
type sourceFlags struct {
	file  string
	sheet string
	query string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "input table: .csv, .tsv, .xlsx, SQLite .db, or - for stdin (required)")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "workbook sheet (default: first sheet)")
	cmd.Flags().StringVar(&f.query, "query", "", "SQL query for SQLite sources")
	_ = cmd.MarkFlagRequired("file")
}

func (f *sourceFlags) load(ctx context.Context) (*helpers.Table, error) {
	logger := loggerFromContext(ctx)
	t, err := helpers.Load(ctx, helpers.Source{Path: f.file, Sheet: f.sheet, Query: f.query})
	if err != nil {
		return nil, err
	}
	logger.Debug("table loaded", "source", f.file, "columns", len(t.Columns), "rows", len(t.Records))
	return t, nil
}

// renderOpts holds render command flags.
type renderOpts struct {
	source     sourceFlags
	chart      string
	x, y, z    string
	category   string
	paramsFile string
	sets       []string
	filters    []string
	format     string
	output     string
	strict     bool
	width      float64
	height     float64
}

func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scatter or bubble chart from a table",
		Long: `Render pivots the input table into series and prints the chart result.

Columns are assigned to axes with --x, --y, --z and --category. Aggregator
columns take an optional aggregation suffix (sum, count, avg, min, max):

  scatter: --x year --y price:avg,qty:sum --category region
  bubble:  --x width --y height --z weight:sum

When no axis flag is given, axes are suggested from the column types.`,
		Example: `  spektr-scatter render -f cars.csv --x year --y price:avg --category make
  spektr-scatter render -f cars.xlsx --chart bubble --x hp --y mpg --z price --format png -o cars.png
  spektr-scatter render -f app.db --query "select * from sales" --x day --y amount --params chart.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runRender(ctx, opts, cmd.ErrOrStderr())
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringVarP(&opts.chart, "chart", "c", schema.ChartScatter, "chart type: "+strings.Join(schema.ChartNames(), ", "))
	cmd.Flags().StringVar(&opts.x, "x", "", "xAxis column")
	cmd.Flags().StringVar(&opts.y, "y", "", "yAxis columns (scatter: aggregators, bubble: key)")
	cmd.Flags().StringVar(&opts.z, "z", "", "zAxis aggregator columns (bubble)")
	cmd.Flags().StringVar(&opts.category, "category", "", "category columns")
	cmd.Flags().StringVar(&opts.paramsFile, "params", "", "TOML file of chart parameters")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "chart parameter key=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.filters, "filter", nil, "keep rows where column=value[,value] (repeatable)")
	cmd.Flags().StringVar(&opts.format, "format", formatPretty, "output format: json, pretty, csv, png, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write output to file instead of stdout")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on invalid chart parameters instead of using defaults")
	cmd.Flags().Float64Var(&opts.width, "width", 6, "preview width in inches")
	cmd.Flags().Float64Var(&opts.height, "height", 4, "preview height in inches")

	return cmd
}

// runRender writes the result to the output and status messages to errw.
func (c *CLI) runRender(ctx context.Context, opts renderOpts, errw io.Writer) (err error) {
	logger := loggerFromContext(ctx)

	switch opts.format {
	case formatJSON, formatPretty, formatCSV, formatPNG, formatSVG:
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	spec, err := schema.Lookup(opts.chart)
	if err != nil {
		return err
	}

	params, err := loadParams(opts.paramsFile)
	if err != nil {
		return err
	}
	if err := applySets(params, opts.sets); err != nil {
		return err
	}
	filters, err := parseFilters(opts.filters)
	if err != nil {
		return err
	}

	table, err := opts.source.load(ctx)
	if err != nil {
		return err
	}
	view := table.View()

	columns := engine.ColumnConfig{
		XAxis:    parseColumns(opts.x),
		YAxis:    parseColumns(opts.y),
		ZAxis:    parseColumns(opts.z),
		Category: parseColumns(opts.category),
	}
	if opts.x == "" && opts.y == "" && opts.z == "" && opts.category == "" {
		columns = suggestColumns(spec, view)
		logger.Info("axes suggested", "xAxis", names(columns.XAxis), "yAxis", names(columns.YAxis), "zAxis", names(columns.ZAxis), "category", names(columns.Category))
	}

	engineOpts := []engine.Option{engine.WithLogger(logger)}
	if opts.strict {
		engineOpts = append(engineOpts, engine.WithStrictParameters())
	}

	result := engine.Render(engine.RenderRequest{
		Chart:     spec.Name,
		Parameter: params,
		Column:    columns,
		Filters:   filters,
	}, view, engineOpts...)

	switch result.Type {
	case engine.ResultHidden:
		printHidden(errw, result.Message)
	case engine.ResultError:
		printError(errw, result.Message)
	default:
		for _, w := range result.Warnings {
			printWarning(errw, "%s", w)
		}
	}

	w, closeOut, err := c.openOutput(opts.output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); cerr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", cerr)
		}
	}()

	switch opts.format {
	case formatCSV:
		err = writeCSV(w, result)
	case formatPNG, formatSVG:
		if result.Type != engine.ResultChart {
			break
		}
		err = preview.Render(w, result.Config, opts.format, vg.Length(opts.width)*vg.Inch, vg.Length(opts.height)*vg.Inch)
	default:
		err = writeJSON(w, result, opts.format)
	}
	if err != nil {
		return err
	}

	if result.Type == engine.ResultError {
		return errors.New("render failed")
	}
	if result.Type == engine.ResultChart {
		summarize(logger, result)
		if opts.output != "" {
			printSuccess(errw, "%s chart written to %s", result.Chart, opts.output)
		}
	}
	return nil
}

// openOutput returns the output writer and its closer.
func (c *CLI) openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return c.out, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, f.Close, nil
}

// suggestColumns assigns columns to axes from their discovered kinds.
func suggestColumns(spec schema.ChartSpec, view engine.RecordView) engine.ColumnConfig {
	assigned := schema.Suggest(spec, schema.DiscoverColumns(view))

	toColumns := func(axis string) []engine.Column {
		var cols []engine.Column
		for _, name := range assigned[axis] {
			cols = append(cols, engine.Column{Name: name})
		}
		return cols
	}
	return engine.ColumnConfig{
		XAxis:    toColumns("xAxis"),
		YAxis:    toColumns("yAxis"),
		ZAxis:    toColumns("zAxis"),
		Category: toColumns("category"),
	}
}

func names(cols []engine.Column) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
		if c.Aggr != "" {
			out[i] += ":" + c.Aggr
		}
	}
	return strings.Join(out, ",")
}

// summarize logs series counts and the data range.
func summarize(logger *log.Logger, r *engine.Result) {
	if r.Stats == nil || r.Config == nil {
		return
	}
	table := engine.BuildTable(r.Config)
	xMin, xMax := math.Inf(1), math.Inf(-1)
	for _, row := range table.Rows {
		if x, ok := engine.TryParseNumber(row[1]); ok {
			xMin, xMax = math.Min(xMin, x), math.Max(xMax, x)
		}
	}

	keyvals := []any{"series", r.Stats.Series, "points", r.Stats.Points, "dropped", r.Stats.Dropped}
	if r.Stats.Points > 0 {
		keyvals = append(keyvals, "x", fmtNum(xMin)+".."+fmtNum(xMax))
	}
	logger.Info("chart rendered", keyvals...)
}
