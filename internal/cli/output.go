package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spektr-org/spektr-scatter/engine"
)

// Output formats.
const (
	formatJSON   = "json"
	formatPretty = "pretty"
	formatCSV    = "csv"
	formatPNG    = "png"
	formatSVG    = "svg"
)

func writeJSON(w io.Writer, v any, format string) error {
	var out []byte
	var err error

	if format == formatPretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// writeCSV writes the plotted points of a chart result, one row per point.
func writeCSV(w io.Writer, result *engine.Result) error {
	cw := csv.NewWriter(w)

	table := engine.BuildTable(result.Config)
	if table == nil {
		cw.Write([]string{"Result", "Message"})
		cw.Write([]string{result.Type, result.Message})
		cw.Flush()
		return cw.Error()
	}

	header := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c.Label
	}
	cw.Write(header)
	for _, row := range table.Rows {
		cw.Write(row)
	}
	cw.Flush()
	return cw.Error()
}

// fmtNum: whole numbers without decimals, fractions with two.
func fmtNum(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
