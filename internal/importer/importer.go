// Package importer parses uploaded vocabulary files into term pairs.
// It only parses; materializing a list and its items from the pairs is
// the app layer's job.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Pair is one parsed source/target term pair
type Pair struct {
	SourceText string
	TargetText string
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath     string // Path to the Excel or CSV file
	SourceColumn string // Column with the source-language term
	TargetColumn string // Column with the target-language term
	SheetName    string // Name of the sheet to import
	StartRow     int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig(filePath string) ImportConfig {
	return ImportConfig{
		FilePath:     filePath,
		SourceColumn: "A",
		TargetColumn: "B",
		SheetName:    "Sheet1",
		StartRow:     2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of a parse operation
type ImportResult struct {
	TotalProcessed int
	Pairs          []Pair
	Skipped        int
	Errors         []string
}

// ParseFile parses term pairs from an Excel or CSV file
func ParseFile(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	if ext == ".csv" {
		return parseFromCSV(config)
	}
	return parseFromExcel(config)
}

// parseFromExcel parses pairs from an xlsx sheet
func parseFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}

		result.TotalProcessed++

		var source, target string
		if colIdx := columnToIndex(config.SourceColumn); colIdx < len(row) {
			source = strings.TrimSpace(row[colIdx])
		}
		if colIdx := columnToIndex(config.TargetColumn); colIdx < len(row) {
			target = strings.TrimSpace(row[colIdx])
		}

		if source == "" || target == "" {
			result.Skipped++
			continue
		}
		result.Pairs = append(result.Pairs, Pair{SourceText: source, TargetText: target})
	}

	return result, nil
}

// parseFromCSV parses pairs from a CSV file
func parseFromCSV(config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	result := &ImportResult{Errors: make([]string, 0)}

	sourceIdx := columnToIndex(config.SourceColumn)
	targetIdx := columnToIndex(config.TargetColumn)

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}

		rowNum++

		// Skip header rows
		if rowNum < config.StartRow {
			continue
		}

		result.TotalProcessed++

		var source, target string
		if sourceIdx < len(row) {
			source = strings.TrimSpace(row[sourceIdx])
		}
		if targetIdx < len(row) {
			target = strings.TrimSpace(row[targetIdx])
		}

		if source == "" || target == "" {
			result.Skipped++
			continue
		}
		result.Pairs = append(result.Pairs, Pair{SourceText: source, TargetText: target})
	}

	return result, nil
}

// columnToIndex converts an Excel-style column letter to a 0-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
