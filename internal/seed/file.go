package seed

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"peoplemover/internal/domain"
)

// ── File loaders ───────────────────────────────────────────
// People can also be seeded from a local CSV or JSON file, picked by
// extension. Used by the optional seed-file watch trigger.

// LoadFile reads person records from path. ".csv" expects a header row with
// name, nickname, gender and age columns; anything else is parsed as a JSON
// array of person objects.
func LoadFile(path string) ([]domain.Person, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return loadCSV(path)
	}
	return loadJSON(path)
}

func loadCSV(path string) ([]domain.Person, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty csv file")
	}

	// Resolve header positions so column order doesn't matter.
	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "nickname", "gender", "age"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csv header missing %q column", required)
		}
	}

	cell := func(row []string, name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var people []domain.Person
	for i, row := range records[1:] {
		age, err := strconv.Atoi(cell(row, "age"))
		if err != nil {
			return nil, fmt.Errorf("row %d: parse age: %w", i+1, err)
		}
		people = append(people, domain.Person{
			Name:     cell(row, "name"),
			Nickname: cell(row, "nickname"),
			Gender:   cell(row, "gender"),
			Age:      age,
		})
	}
	return people, nil
}

func loadJSON(path string) ([]domain.Person, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var people []domain.Person
	if err := json.Unmarshal(data, &people); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return people, nil
}
