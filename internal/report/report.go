// Package report writes extraction results: a console table, an XLSX
// spreadsheet, the raw OCR dump and a run summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/xuri/excelize/v2"

	"github.com/th-dev-git/QSnich-img-processing/internal/batch"
	"github.com/th-dev-git/QSnich-img-processing/internal/person"
)

// SheetName is the single worksheet written to every spreadsheet.
const SheetName = "sheet1"

// TimestampLayout is the UTC timestamp that prefixes spreadsheet names.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Table prints persons as a console table, one row per record.
func Table(w io.Writer, persons []person.Person) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(append([]string{"#"}, person.Fields()...))
	table.SetAutoWrapText(false)
	for i, p := range persons {
		table.Append(append([]string{fmt.Sprint(i)}, p.Values()...))
	}
	table.Render()
}

// FileName returns "<timestamp>-<prefix>.xlsx" for now.
func FileName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s.xlsx", now.UTC().Format(TimestampLayout), prefix)
}

// WriteXLSX writes persons to dir/FileName(prefix, now) with a header row of
// field names and returns the path written.
func WriteXLSX(dir, prefix string, persons []person.Person, now time.Time) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return "", fmt.Errorf("xlsx sheet: %w", err)
	}

	write := func(col, row int, v string) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(SheetName, cell, v)
	}

	for i, h := range person.Fields() {
		if err := write(i+1, 1, h); err != nil {
			return "", fmt.Errorf("xlsx header: %w", err)
		}
	}
	for r, p := range persons {
		for c, v := range p.Values() {
			if err := write(c+1, r+2, v); err != nil {
				return "", fmt.Errorf("xlsx row %d: %w", r+2, err)
			}
		}
	}
	_ = f.SetColWidth(SheetName, "A", "A", 28) // name
	_ = f.SetColWidth(SheetName, "B", "E", 14)

	path := filepath.Join(dir, FileName(prefix, now))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("xlsx write %s: %w", path, err)
	}
	return path, nil
}

// WriteRaw writes raw as an indented JSON array of {name, raw} objects. An
// empty capture is written as [].
func WriteRaw(path string, raw []person.RawData) error {
	if raw == nil {
		raw = []person.RawData{}
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode raw data: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write raw data %s: %w", path, err)
	}
	return nil
}

// Summary prints run totals, the incomplete records and every gap.
func Summary(w io.Writer, res *batch.Result) {
	incomplete := res.Incomplete()
	fmt.Fprintf(w, "run %s: %d records, %d incomplete, %d raw, %d skipped folders (%s)\n",
		res.RunID, len(res.Persons), len(incomplete), len(res.Raw), res.Skipped,
		res.Elapsed.Round(time.Millisecond))

	for _, p := range incomplete {
		fmt.Fprintf(w, "  incomplete: %s missing %v\n", p.Name, p.Missing())
	}
	for _, g := range res.Gaps {
		fmt.Fprintf(w, "  gap: %s\n", g)
	}
}
