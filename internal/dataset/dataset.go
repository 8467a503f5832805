// internal/dataset/dataset.go
package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/mwiater/goquantile/quantile"
)

// Format identifies an input encoding.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the format from a file extension. Unknown
// extensions and "-" (stdin) read as whitespace separated text.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".tsv":
		return FormatTSV
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// ParseFormat validates a format name. The empty string means "guess".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatText, FormatCSV, FormatTSV, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", errors.Wrapf(quantile.ErrInvalidArgument, "unknown input format %q", s)
}

// Load reads a flat sample from path ("-" for stdin).
func Load(path string, format Format) ([]float64, error) {
	rows, err := LoadRows(path, format)
	if err != nil {
		return nil, err
	}
	return Flatten(rows), nil
}

// LoadRows reads one sample per row from path ("-" for stdin).
func LoadRows(path string, format Format) ([][]float64, error) {
	if format == "" {
		format = FormatFromPath(path)
	}
	if path == "-" {
		return ReadRows(os.Stdin, format)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %s", path)
	}
	defer f.Close()

	rows, err := ReadRows(f, format)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", path)
	}
	return rows, nil
}

// Read decodes a flat sample from r.
func Read(r io.Reader, format Format) ([]float64, error) {
	rows, err := ReadRows(r, format)
	if err != nil {
		return nil, err
	}
	return Flatten(rows), nil
}

// ReadRows decodes rows of values from r.
//
// JSON and YAML accept a flat list, a list of lists, or an object with a
// "values" or "rows" key. CSV and TSV treat every record as a row and skip a
// leading header record in which no field is a number. Text treats every non-empty line as a row of
// whitespace or comma separated numbers; lines starting with '#' are comments.
func ReadRows(r io.Reader, format Format) ([][]float64, error) {
	var (
		rows [][]float64
		err  error
	)
	switch format {
	case FormatCSV:
		rows, err = readCSV(r, ',')
	case FormatTSV:
		rows, err = readCSV(r, '\t')
	case FormatJSON:
		rows, err = readStructured(r, json.Unmarshal)
	case FormatYAML:
		rows, err = readStructured(r, yaml.Unmarshal)
	case FormatText, "":
		rows, err = readText(r)
	default:
		return nil, errors.Wrapf(quantile.ErrInvalidArgument, "unknown input format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.Wrap(quantile.ErrInvalidArgument, "no values in input")
	}
	for i, row := range rows {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.Wrapf(quantile.ErrInvalidArgument, "row %d contains non-finite value %v", i, v)
			}
		}
	}
	return rows, nil
}

func readCSV(r io.Reader, comma rune) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var rows [][]float64
	for line := 0; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "csv")
		}
		if line == 0 && isHeader(rec) {
			logrus.WithField("header", rec).Debug("skipping csv header")
			continue
		}
		row, err := ParseFloats(rec)
		if err != nil {
			return nil, errors.Wrapf(err, "csv record %d", line+1)
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// isHeader reports whether no field of rec parses as a number.
func isHeader(rec []string) bool {
	for _, f := range rec {
		if _, err := strconv.ParseFloat(strings.TrimSpace(f), 64); err == nil {
			return false
		}
	}
	return true
}

func readText(r io.Reader) ([][]float64, error) {
	var rows [][]float64
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t'
		})
		row, err := ParseFloats(fields)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read")
	}
	return rows, nil
}

type document struct {
	Values []float64   `json:"values" yaml:"values"`
	Rows   [][]float64 `json:"rows" yaml:"rows"`
}

func readStructured(r io.Reader, unmarshal func([]byte, any) error) ([][]float64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read")
	}
	data = bytes.TrimSpace(data)

	var flat []float64
	if err := unmarshal(data, &flat); err == nil {
		return [][]float64{flat}, nil
	}
	var rows [][]float64
	if err := unmarshal(data, &rows); err == nil {
		return rows, nil
	}
	var doc document
	if err := unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(quantile.ErrInvalidArgument, err.Error())
	}
	if len(doc.Rows) > 0 {
		return doc.Rows, nil
	}
	if len(doc.Values) > 0 {
		return [][]float64{doc.Values}, nil
	}
	return nil, nil
}

// ParseFloats parses each field as a float64, ignoring empty fields. NaN and
// infinities are rejected.
func ParseFloats(fields []string) ([]float64, error) {
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errors.Wrapf(quantile.ErrInvalidArgument, "not a number: %q", f)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Wrapf(quantile.ErrInvalidArgument, "non-finite value: %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}

// Flatten concatenates rows.
func Flatten(rows [][]float64) []float64 {
	var n int
	for _, row := range rows {
		n += len(row)
	}
	out := make([]float64, 0, n)
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}

// Sorted returns a sorted copy of values.
func Sorted(values []float64) []float64 {
	out := slices.Clone(values)
	slices.Sort(out)
	return out
}

// SortRows sorts every row in place.
func SortRows(rows [][]float64) {
	for _, row := range rows {
		slices.Sort(row)
	}
}

// Rectangular reports whether every row has the same non-zero length.
func Rectangular(rows [][]float64) bool {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return false
	}
	for _, row := range rows[1:] {
		if len(row) != len(rows[0]) {
			return false
		}
	}
	return true
}

// ToDense packs rectangular rows into a matrix.
func ToDense(rows [][]float64) (*mat.Dense, error) {
	if !Rectangular(rows) {
		return nil, errors.Wrap(quantile.ErrInvalidArgument, "rows must be non-empty and of equal length")
	}
	cols := len(rows[0])
	return mat.NewDense(len(rows), cols, Flatten(rows)), nil
}
