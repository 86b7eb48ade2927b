package cli

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/spektr-org/spektr-scatter/engine"
)

// loadParams reads a flat TOML table of chart parameters, e.g.
//
//	mainTitle = "Price vs. year"
//	markerRadius = 4
//	floatingLegend = "top-right"
func loadParams(path string) (map[string]any, error) {
	params := map[string]any{}
	if path == "" {
		return params, nil
	}
	if _, err := toml.DecodeFile(path, &params); err != nil {
		return nil, fmt.Errorf("read params %s: %w", path, err)
	}
	for key, v := range params {
		if _, nested := v.(map[string]any); nested {
			return nil, fmt.Errorf("read params %s: table [%s] is not a chart parameter", path, key)
		}
	}
	return params, nil
}

// applySets overlays key=value pairs on params. Values stay strings; the
// parameter decoder converts them to the declared type.
func applySets(params map[string]any, sets []string) error {
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("invalid --set %q: want key=value", s)
		}
		params[key] = value
	}
	return nil
}

// parseColumns parses "price:avg,qty" into columns. The aggregation suffix
// is optional.
func parseColumns(s string) []engine.Column {
	var cols []engine.Column
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, aggr, _ := strings.Cut(part, ":")
		cols = append(cols, engine.Column{Name: strings.TrimSpace(name), Aggr: strings.TrimSpace(aggr)})
	}
	return cols
}

// parseFilters parses repeated "column=v1,v2" flags.
func parseFilters(specs []string) (engine.Filters, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	f := engine.Filters{}
	for _, s := range specs {
		col, values, ok := strings.Cut(s, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid --filter %q: want column=value[,value]", s)
		}
		for _, v := range strings.Split(values, ",") {
			f[col] = append(f[col], strings.TrimSpace(v))
		}
	}
	return f, nil
}
