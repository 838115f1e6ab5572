package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies the tabular encoding of an upload.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates an explicit format hint.
func ParseFormat(hint string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "xlsm", "excel":
		return FormatXLSX, nil
	default:
		return "", &FormatError{Err: fmt.Errorf("unsupported format %q", hint)}
	}
}

// DetectFormat derives the format from a file name extension.
func DetectFormat(fileName string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(fileName), ".")
	if ext == "" {
		return "", &FormatError{Err: fmt.Errorf("file %q has no extension", fileName)}
	}
	return ParseFormat(ext)
}
