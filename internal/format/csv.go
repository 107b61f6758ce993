package format

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/Andrei-Barwood/todo2issues/internal/model"
)

// CSVHeader is the fixed column order of the tabular export.
var CSVHeader = []string{
	"id", "file", "line", "marker", "content", "context",
	"priority", "owner", "estimate_hours", "labels",
}

const labelSeparator = ";"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type CSVOptions struct {
	// BOM prefixes the output with a UTF-8 byte order mark for spreadsheet tools.
	BOM bool
}

// WriteCSV writes the header and one row per finding, in slice order.
func WriteCSV(w io.Writer, findings []model.Finding, opts CSVOptions) error {
	if opts.BOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return err
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, f := range findings {
		if err := cw.Write(CSVRow(f)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func CSVRow(f model.Finding) []string {
	return []string{
		strconv.Itoa(f.ID),
		f.FilePath,
		strconv.Itoa(f.Line),
		string(f.Marker),
		f.Content,
		f.Context.Text,
		string(f.Priority),
		f.Owner,
		strconv.Itoa(f.EstimateHours),
		strings.Join(f.Labels, labelSeparator),
	}
}
