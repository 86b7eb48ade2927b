package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/spektr-scatter/engine"
)

const salesCSV = "year,region,price\n2020,EU,10\n2020,US,25\n2021,EU,30\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes the root command and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCapture(t, args...)
	return out, err
}

// runCapture executes the root command and returns stdout and stderr.
func runCapture(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.SetOutput(&out)

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestParseColumns(t *testing.T) {
	got := parseColumns(" price:avg, qty ,, year : max ")
	want := []engine.Column{
		{Name: "price", Aggr: "avg"},
		{Name: "qty"},
		{Name: "year", Aggr: "max"},
	}
	assert.Equal(t, want, got)
	assert.Nil(t, parseColumns(""))
}

func TestParseFilters(t *testing.T) {
	f, err := parseFilters([]string{"region=EU, US", "year=2020"})
	require.NoError(t, err)
	assert.Equal(t, engine.Filters{"region": {"EU", "US"}, "year": {"2020"}}, f)

	f, err = parseFilters(nil)
	require.NoError(t, err)
	assert.Nil(t, f)

	_, err = parseFilters([]string{"=EU"})
	assert.Error(t, err)
}

func TestApplySets(t *testing.T) {
	params := map[string]any{"mainTitle": "old"}
	require.NoError(t, applySets(params, []string{"mainTitle=new", "markerRadius=5", "subTitle=a=b"}))
	assert.Equal(t, map[string]any{"mainTitle": "new", "markerRadius": "5", "subTitle": "a=b"}, params)

	assert.Error(t, applySets(params, []string{"novalue"}))
}

func TestLoadParams(t *testing.T) {
	params, err := loadParams("")
	require.NoError(t, err)
	assert.Empty(t, params)

	path := writeFile(t, "chart.toml", "mainTitle = \"Sales\"\nmarkerRadius = 4\nshowLegend = false\n")
	params, err = loadParams(path)
	require.NoError(t, err)
	assert.Equal(t, "Sales", params["mainTitle"])
	assert.Equal(t, int64(4), params["markerRadius"])
	assert.Equal(t, false, params["showLegend"])

	nested := writeFile(t, "nested.toml", "[chart]\nmainTitle = \"x\"\n")
	_, err = loadParams(nested)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[chart]")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, &engine.Result{Type: engine.ResultHidden, Message: engine.HiddenMessage}))
	assert.Equal(t, "Result,Message\nhidden,"+engine.HiddenMessage+"\n", buf.String())
}

func TestFmtNum(t *testing.T) {
	assert.Equal(t, "12", fmtNum(12))
	assert.Equal(t, "1.25", fmtNum(1.25))
}

func TestRenderCSV(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)
	out, err := run(t, "render", "-f", path, "--x", "year", "--y", "price:sum", "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "Series,X,Y\nprice(sum),2020,35\nprice(sum),2021,30\n", out)
}

func TestRenderJSONWithParams(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)
	params := writeFile(t, "chart.toml", "mainTitle = \"Sales\"\nmarkerRadius = 6\n")

	out, err := run(t, "render", "-f", path, "--x", "year", "--y", "price:max",
		"--category", "region", "--params", params, "--set", "subTitle=EU vs US", "--format", "json")
	require.NoError(t, err)

	var res struct {
		Type   string `json:"type"`
		Config struct {
			Title    struct{ Text string } `json:"title"`
			Subtitle struct{ Text string } `json:"subtitle"`
			Series   []struct {
				Name string `json:"name"`
			} `json:"series"`
		} `json:"config"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, engine.ResultChart, res.Type)
	assert.Equal(t, "Sales", res.Config.Title.Text)
	assert.Equal(t, "EU vs US", res.Config.Subtitle.Text)
	require.Len(t, res.Config.Series, 2)
	assert.Equal(t, "EU", res.Config.Series[0].Name)
	assert.Equal(t, "US", res.Config.Series[1].Name)
}

func TestRenderFilter(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)
	out, err := run(t, "render", "-f", path, "--x", "year", "--y", "price", "--filter", "region=us", "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "Series,X,Y\nprice(sum),2020,25\n", out)
}

func TestRenderSuggestsAxes(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)
	out, err := run(t, "render", "-f", path, "--format", "json")
	require.NoError(t, err)

	var res engine.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.NotEqual(t, engine.ResultError, res.Type)
}

func TestRenderErrorResult(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)
	out, err := run(t, "render", "-f", path, "--x", "year", "--y", "cost", "--format", "json")
	require.Error(t, err)

	var res engine.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, engine.ErrCodeInvalidInput, res.Code)
}

func TestRenderHidden(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)
	out, err := run(t, "render", "-f", path, "--x", "year", "--format", "json")
	require.NoError(t, err)

	var res engine.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, engine.ResultHidden, res.Type)
}

func TestRenderPNGFile(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)
	png := filepath.Join(t.TempDir(), "out.png")
	_, err := run(t, "render", "-f", path, "--x", "year", "--y", "price", "--format", "png", "-o", png)
	require.NoError(t, err)

	data, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestRenderRejectsBadFlags(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)

	_, err := run(t, "render", "-f", path, "--format", "gif")
	assert.ErrorContains(t, err, "unknown format")

	_, err = run(t, "render", "-f", path, "--chart", "pie")
	assert.Error(t, err)

	_, err = run(t, "render", "--x", "year")
	assert.Error(t, err)
}

func TestDiscoverJSON(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)
	out, err := run(t, "discover", "-f", path, "--format", "json")
	require.NoError(t, err)

	var res discoverOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "scatter", res.Chart)
	assert.Equal(t, 3, res.Rows)
	require.Len(t, res.Columns, 3)
	assert.Equal(t, "year", res.Columns[0].Name)
}

func TestDiscoverTable(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)
	out, err := run(t, "discover", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "3 columns")
	assert.Contains(t, out, "region")
}

func TestChartsCommand(t *testing.T) {
	out, err := run(t, "charts", "bubble", "--format", "json")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, `"name":"bubble"`))
	assert.False(t, strings.Contains(out, `"name":"scatter"`))

	out, err = run(t, "charts")
	require.NoError(t, err)
	assert.Contains(t, out, "maxBubbleSize")
	assert.Contains(t, out, "markerRadius")

	_, err = run(t, "charts", "pie")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, appName+" "+Version+"\n", out)
}

func TestRenderMessagesGoToCommandStderr(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)

	_, stderr, err := runCapture(t, "render", "-f", path, "--x", "year", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Chart hidden")
	assert.Contains(t, stderr, engine.HiddenMessage)

	_, stderr, err = runCapture(t, "render", "-f", path, "--x", "year", "--y", "cost", "--format", "json")
	require.Error(t, err)
	assert.Contains(t, stderr, "Render failed")

	_, stderr, err = runCapture(t, "render", "-f", path, "--x", "year", "--y", "price", "--set", "zoomType=x", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "zoomType")

	png := filepath.Join(t.TempDir(), "out.png")
	_, stderr, err = runCapture(t, "render", "-f", path, "--x", "year", "--y", "price", "--format", "png", "-o", png)
	require.NoError(t, err)
	assert.Contains(t, stderr, "scatter chart written to "+png)
}

func TestOpenOutputCloserReportsErrors(t *testing.T) {
	c := New(io.Discard, LogInfo)

	w, closeOut, err := c.openOutput(filepath.Join(t.TempDir(), "out.json"))
	require.NoError(t, err)
	_, err = io.WriteString(w, "{}")
	require.NoError(t, err)
	require.NoError(t, closeOut())
	assert.Error(t, closeOut(), "closing twice should surface the error")

	c.SetOutput(io.Discard)
	_, closeStdout, err := c.openOutput("")
	require.NoError(t, err)
	assert.NoError(t, closeStdout())
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, []string{"COLUMN", "KIND"}, [][]string{{"year", "numeric"}, {"region", "categorical"}})

	out := buf.String()
	for _, want := range []string{"COLUMN", "KIND", "year", "numeric", "region", "categorical", "╭", "╯"} {
		assert.Contains(t, out, want)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines[1:] {
		assert.Equal(t, lipgloss.Width(lines[0]), lipgloss.Width(line), "rows should align: %q", line)
	}
}
