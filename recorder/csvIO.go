package recorder

import (
	"encoding/csv"
	"fmt"
	"os"
)

func initializeCSV(filename string, header []string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create %s: %w", filename, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header to %s: %w", filename, err)
	}
	return nil
}

func appendToCSV(filename string, rows [][]string) error {
	file, err := os.OpenFile(filename, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", filename, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("append to %s: %w", filename, err)
	}
	return nil
}
