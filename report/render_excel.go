package report

import (
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Predictors"

func cellName(col int, row int) (name string) {
	columnName, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return
	}
	name, err = excelize.JoinCellName(columnName, row)
	if err != nil {
		return
	}
	return
}

// RenderXlsx writes the report as an xlsx workbook with one row per
// predictor.
func (r *Report) RenderXlsx(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})

	row := 1
	_ = f.SetCellValue(sheetName, cellName(1, row), "Trace")
	_ = f.SetCellStyle(sheetName, cellName(1, row), cellName(1, row), boldStyle)
	_ = f.SetCellValue(sheetName, cellName(2, row), r.Trace)
	row++
	_ = f.SetCellValue(sheetName, cellName(1, row), "Branches")
	_ = f.SetCellStyle(sheetName, cellName(1, row), cellName(1, row), boldStyle)
	_ = f.SetCellValue(sheetName, cellName(2, row), r.Records)
	row += 2

	headers := []string{"Predictor", "Kind", "Predictions", "Correct", "Mispredictions", "Unique Branches"}
	headers = append(headers, r.MetricNames...)
	for i, h := range headers {
		_ = f.SetCellValue(sheetName, cellName(i+1, row), h)
	}
	_ = f.SetCellStyle(sheetName, cellName(1, row), cellName(len(headers), row), boldStyle)
	row++

	for _, e := range r.Entries {
		s := e.Result.Stats
		values := []interface{}{
			e.Predictor,
			string(e.Result.Config.Kind),
			s.Predictions,
			s.Correct,
			s.Mispredictions,
			s.UniqueBranches,
		}
		for _, name := range r.MetricNames {
			values = append(values, e.Metrics[name])
		}
		for i, v := range values {
			_ = f.SetCellValue(sheetName, cellName(i+1, row), v)
		}
		row++
	}

	return f.Write(w)
}
