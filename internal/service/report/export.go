package report

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const maxSheetName = 31

func ExportFilename(m Metric) string {
	return fmt.Sprintf("%s-analytics.xlsx", m)
}

// SheetName is the worksheet the export writes to.
func SheetName(m Metric) string {
	name := m.Label()
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}

// Export renders res as an xlsx workbook: a header row, one row per result
// row and, when there is data, a column chart of the last column against the
// first.
func Export(res Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(res.Metric)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("hoja: %w", err)
	}

	header := make([]any, len(res.Columns))
	for i, c := range res.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}

	for i, row := range res.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = cellValue(v)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("fila %d: %w", i+1, err)
		}
	}

	if len(res.Rows) > 0 && len(res.Columns) >= 2 {
		if err := addChart(f, sheet, res); err != nil {
			return nil, fmt.Errorf("grafico: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("escribir xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func addChart(f *excelize.File, sheet string, res Result) error {
	last, err := excelize.ColumnNumberToName(len(res.Columns))
	if err != nil {
		return err
	}
	anchor, err := excelize.CoordinatesToCellName(len(res.Columns)+2, 2)
	if err != nil {
		return err
	}
	end := len(res.Rows) + 1

	return f.AddChart(sheet, anchor, &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$%s$1", sheet, last),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, end),
			Values:     fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet, last, last, end),
		}},
		Title:  []excelize.RichTextRun{{Text: res.Metric.Label()}},
		Legend: excelize.ChartLegend{Position: "none"},
	})
}

func cellValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	default:
		return v
	}
}
