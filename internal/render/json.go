package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/xuanyanwow/GoNavi-sub000/pkg/types"
)

// JSONRenderer formats results as indented JSON
type JSONRenderer struct{}

// NewJSONRenderer creates a new JSON renderer
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Format formats the result as JSON and writes it to the writer
func (r *JSONRenderer) Format(res *types.Result, writer io.Writer) error {
	if res == nil {
		res = &types.Result{}
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result to JSON: %w", err)
	}

	if _, err = writer.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}

	// Add newline
	_, err = writer.Write([]byte("\n"))
	return err
}

// Name returns the name of this renderer
func (r *JSONRenderer) Name() string {
	return "json"
}
