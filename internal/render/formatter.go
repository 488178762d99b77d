// Package render formats executed-statement results for terminal and
// machine consumption.
package render

import (
	"fmt"
	"io"

	"github.com/xuanyanwow/GoNavi-sub000/pkg/types"
)

// Formatter renders one statement result to a writer.
type Formatter interface {
	// Format writes the result, row set or affected count alike.
	Format(res *types.Result, writer io.Writer) error

	// Name returns the name of this formatter
	Name() string
}

// FormatType represents supported output formats
type FormatType string

const (
	FormatTable FormatType = "table"
	FormatJSON  FormatType = "json"
	FormatCSV   FormatType = "csv"
)

// GetFormatter returns a formatter for the specified format type
func GetFormatter(format FormatType) (Formatter, error) {
	switch format {
	case FormatTable:
		return NewTableRenderer(), nil
	case FormatJSON:
		return NewJSONRenderer(), nil
	case FormatCSV:
		return NewCSVRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: table, json, csv)", format)
	}
}

// FormatToWriter renders a result to a writer using the specified format
func FormatToWriter(res *types.Result, format FormatType, writer io.Writer) error {
	formatter, err := GetFormatter(format)
	if err != nil {
		return err
	}
	return formatter.Format(res, writer)
}

// ValidFormat checks if a format string is valid
func ValidFormat(format string) bool {
	switch FormatType(format) {
	case FormatTable, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// SupportedFormats returns a list of supported format names
func SupportedFormats() []string {
	return []string{string(FormatTable), string(FormatJSON), string(FormatCSV)}
}
