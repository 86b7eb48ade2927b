package helpers

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Source names where a table comes from.
type Source struct {
	// Path is a .csv, .tsv, .xlsx/.xlsm or SQLite (.db, .sqlite, .sqlite3)
	// file. "-" reads CSV from Stdin.
	Path string
	// Sheet selects the workbook sheet; empty means the first.
	Sheet string
	// Query is the SQL to run against a SQLite source.
	Query string
	// Stdin is read when Path is "-". Defaults to os.Stdin.
	Stdin io.Reader
}

// Load reads the table described by src.
func Load(ctx context.Context, src Source) (*Table, error) {
	if src.Path == "" {
		return nil, fmt.Errorf("no source path given")
	}
	if src.Path == "-" {
		in := src.Stdin
		if in == nil {
			in = os.Stdin
		}
		return ReadDelimited(in, ',')
	}

	switch ext := strings.ToLower(filepath.Ext(src.Path)); ext {
	case ".csv", ".tsv", ".txt":
		f, err := os.Open(src.Path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", src.Path, err)
		}
		defer f.Close()
		delim := ','
		if ext == ".tsv" {
			delim = '\t'
		}
		return ReadDelimited(f, delim)

	case ".xlsx", ".xlsm":
		return ReadXLSX(src.Path, src.Sheet)

	case ".db", ".sqlite", ".sqlite3":
		if strings.TrimSpace(src.Query) == "" {
			return nil, fmt.Errorf("SQLite source %s needs a query", src.Path)
		}
		return QuerySQLite(ctx, src.Path, src.Query)

	default:
		return nil, fmt.Errorf("unsupported source type %q", ext)
	}
}
