package config

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

var csvRequiredColumns = []string{"time", "line", "train_number", "destination"}

// ReadCSVAsMapSlice reads a headed CSV file into one map per row.
func ReadCSVAsMapSlice(filePath string) ([]map[string]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var records []map[string]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		record := make(map[string]string, len(headers))
		for i, header := range headers {
			record[header] = row[i]
		}
		records = append(records, record)
	}
	return records, nil
}

func csvInt(record map[string]string, column string) (int, error) {
	value := record[column]
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("column %s: %q is not an integer", column, value)
	}
	return n, nil
}

// LoadConfigFromCsv reads a bare timetable: one departure per row, columns
// time, line, train_number, destination and optionally track, delay_minutes.
func LoadConfigFromCsv(path string) (ConfigFile, error) {
	records, err := ReadCSVAsMapSlice(path)
	if err != nil {
		return ConfigFile{}, err
	}

	var cfg ConfigFile
	for i, record := range records {
		for _, column := range csvRequiredColumns {
			if _, ok := record[column]; !ok {
				return ConfigFile{}, fmt.Errorf("missing column %s", column)
			}
		}

		entry := DepartureEntry{
			Time:        record["time"],
			Line:        record["line"],
			Destination: record["destination"],
		}
		if entry.TrainNumber, err = csvInt(record, "train_number"); err != nil {
			return ConfigFile{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		if entry.Track, err = csvInt(record, "track"); err != nil {
			return ConfigFile{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		if entry.DelayMinutes, err = csvInt(record, "delay_minutes"); err != nil {
			return ConfigFile{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		cfg.Departures = append(cfg.Departures, entry)
	}
	return cfg, nil
}
