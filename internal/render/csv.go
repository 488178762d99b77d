package render

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/xuanyanwow/GoNavi-sub000/pkg/types"
)

// CSVRenderer formats row sets as RFC 4180 CSV with a header record.
// Cells use the normalized string form, so NULL and the empty string
// both come out empty — CSV has no way to tell them apart anyway.
type CSVRenderer struct{}

// NewCSVRenderer creates a new CSV renderer
func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

// Format writes the result as CSV. A result without rows degrades to a
// single "affected" column holding the driver-reported count.
func (r *CSVRenderer) Format(res *types.Result, writer io.Writer) error {
	w := csv.NewWriter(writer)

	if res == nil || res.Set == nil {
		if err := w.Write([]string{"affected"}); err != nil {
			return err
		}
		if err := w.Write([]string{strconv.FormatInt(affected(res), 10)}); err != nil {
			return err
		}
		w.Flush()
		return w.Error()
	}

	if err := w.Write(res.Set.Columns); err != nil {
		return err
	}
	record := make([]string, len(res.Set.Columns))
	for _, row := range res.Set.Rows {
		for i, col := range res.Set.Columns {
			record[i] = row[col].NormalizedString()
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Name returns the name of this renderer
func (r *CSVRenderer) Name() string {
	return "csv"
}
