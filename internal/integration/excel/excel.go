// Package excel serializes sample registers to and from .xlsx workbooks
package excel

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/abelzeko/water-samples/internal/entities"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Registro"
	FileName    = "registro_muestras.xlsx"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Export writes the records, in order, to a single-sheet workbook and returns its bytes
func Export(records []entities.SampleRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, SheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	for i, h := range entities.Labels {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, fmt.Errorf("failed to set header %s: %w", h, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(entities.Labels))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", lastCol, 18); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	for i, rec := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := rec.Values()
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row for %s: %w", rec.Code, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Import reads a workbook produced by Export back into records
func Import(r io.Reader) ([]entities.SampleRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s has no header row", SheetName)
	}

	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[h] = i
	}
	for _, label := range entities.Labels {
		if _, ok := col[label]; !ok {
			return nil, fmt.Errorf("missing column %q", label)
		}
	}

	records := make([]entities.SampleRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		get := func(label string) string {
			if i := col[label]; i < len(row) {
				return row[i]
			}
			return ""
		}
		rec, err := parseRow(get)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ImportBytes is Import over an in-memory workbook
func ImportBytes(data []byte) ([]entities.SampleRecord, error) {
	return Import(bytes.NewReader(data))
}

func parseRow(get func(string) string) (entities.SampleRecord, error) {
	var (
		rec entities.SampleRecord
		err error
	)

	rec.Code = get(entities.LabelCode)
	if rec.Date, err = time.Parse(entities.DateLayout, get(entities.LabelDate)); err != nil {
		return rec, fmt.Errorf("invalid date: %w", err)
	}
	rec.Time = get(entities.LabelTime)
	if rec.Device, err = entities.ParseDevice(get(entities.LabelDevice)); err != nil {
		return rec, err
	}
	if rec.PhysicoChemical, err = entities.ParseYesNo(get(entities.LabelPhysicoChemical)); err != nil {
		return rec, err
	}
	if rec.Microbiological1, err = entities.ParseYesNo(get(entities.LabelMicrobiological1)); err != nil {
		return rec, err
	}
	if rec.Microbiological2, err = entities.ParseYesNo(get(entities.LabelMicrobiological2)); err != nil {
		return rec, err
	}
	if rec.WaterType, err = entities.ParseWaterType(get(entities.LabelWaterType)); err != nil {
		return rec, err
	}
	if rec.PH, err = parseNumber(get(entities.LabelPH)); err != nil {
		return rec, err
	}
	if rec.Chlorine, err = parseNumber(get(entities.LabelChlorine)); err != nil {
		return rec, err
	}
	if rec.Temperature, err = parseNumber(get(entities.LabelTemperature)); err != nil {
		return rec, err
	}
	rec.Observations = get(entities.LabelObservations)
	if rec.SampleType, err = entities.ParseSampleType(get(entities.LabelSampleType)); err != nil {
		return rec, err
	}
	rec.Sampler = get(entities.LabelSampler)
	return rec, nil
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return v, nil
}
