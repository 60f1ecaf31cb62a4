package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by --format.
const (
	FormatAuto  = "auto"
	FormatTable = "table"
	FormatTSV   = "tsv"
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// resolveFormat validates the format and resolves auto to table on a
// terminal and TSV otherwise.
func (a *App) resolveFormat() (string, error) {
	f := strings.ToLower(a.format)
	switch f {
	case "", FormatAuto:
		if a.isTerminal(a.stdout) {
			return FormatTable, nil
		}
		return FormatTSV, nil
	case FormatTable, FormatTSV, FormatCSV, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", exitWithCode(ExitValidation, fmt.Errorf("unknown format %q", a.format))
}

// number is a float64 that encodes non-finite values as JSON null.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 16, 64)
}

func formatX(z complex128) string {
	if imag(z) == 0 {
		return formatFloat(real(z))
	}
	if cmplx.IsNaN(z) {
		return "NaN"
	}
	return strconv.FormatComplex(z, 'g', 16, 128)
}

// writeRecords renders a header and rows in a delimited or aligned format.
func writeRecords(w io.Writer, format string, header []string, rows [][]string) error {
	switch format {
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(header); err != nil {
			return err
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
		return cw.Error()
	case FormatTable:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(header, "\t"))
		for _, r := range rows {
			fmt.Fprintln(tw, strings.Join(r, "\t"))
		}
		return tw.Flush()
	default:
		if _, err := fmt.Fprintln(w, strings.Join(header, "\t")); err != nil {
			return err
		}
		for _, r := range rows {
			if _, err := fmt.Fprintln(w, strings.Join(r, "\t")); err != nil {
				return err
			}
		}
		return nil
	}
}

// writeDocument renders v as JSON or YAML.
func writeDocument(w io.Writer, format string, v any) error {
	if format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
