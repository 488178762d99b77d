package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/xuanyanwow/GoNavi-sub000/pkg/types"
)

// TableRenderer writes results as an aligned text grid, the default
// console presentation. NULL cells render as the word NULL, which the
// comparison normalization never produces for real text, so the two
// stay distinguishable on screen.
type TableRenderer struct{}

// NewTableRenderer creates a new table renderer
func NewTableRenderer() *TableRenderer {
	return &TableRenderer{}
}

// Format writes the result as an aligned grid, or as a one-line
// affected-count message for statements that return no rows.
func (r *TableRenderer) Format(res *types.Result, writer io.Writer) error {
	if res == nil || res.Set == nil {
		_, err := fmt.Fprintf(writer, "OK, %d row(s) affected\n", affected(res))
		return err
	}

	tw := tabwriter.NewWriter(writer, 2, 4, 2, ' ', 0)
	for i, col := range res.Set.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col)
	}
	fmt.Fprintln(tw)

	for _, row := range res.Set.Rows {
		for i, col := range res.Set.Columns {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, row[col].String())
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(writer, "(%d rows)\n", len(res.Set.Rows))
	return err
}

func affected(res *types.Result) int64 {
	if res == nil {
		return 0
	}
	return res.Affected
}

// Name returns the name of this renderer
func (r *TableRenderer) Name() string {
	return "table"
}
