package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/sartorproj/regionforecast/backtest"
)

// ErrNoRows is returned when there is nothing to write.
var ErrNoRows = errors.New("export: no rows")

// WriteCSV writes records as a headed CSV table. Column names come from the
// dataframe struct tags.
func WriteCSV[T any](w io.Writer, records []T) error {
	if len(records) == 0 {
		return ErrNoRows
	}
	df := dataframe.LoadStructs(records)
	if df.Err != nil {
		return fmt.Errorf("export: %w", df.Err)
	}
	return df.WriteCSV(w)
}

// Sheet is one worksheet of an XLSX workbook.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// ForecastSheet lays out forecast records as a worksheet.
func ForecastSheet(records []ForecastRecord) Sheet {
	s := Sheet{Name: "forecast", Header: []string{"metric", "year", "entity_code", "entity_name", "value"}}
	for _, r := range records {
		s.Rows = append(s.Rows, []any{r.Metric, r.Year, r.EntityCode, r.EntityName, r.Value})
	}
	return s
}

// ScoreSheet lays out per-method summary records as a worksheet.
func ScoreSheet(records []ScoreRecord) Sheet {
	s := Sheet{Name: "summary", Header: []string{"method", "rmse", "mae", "mape", "score", "label", "series_count"}}
	for _, r := range records {
		s.Rows = append(s.Rows, []any{r.Method, r.RMSE, r.MAE, r.MAPE, r.Score, r.Label, r.SeriesCount})
	}
	return s
}

// DetailSheet lays out per-entity score records as a worksheet.
func DetailSheet(records []DetailRecord) Sheet {
	s := Sheet{Name: "details", Header: []string{"entity_code", "entity_name", "method", "rmse", "mae", "mape", "best_method"}}
	for _, r := range records {
		s.Rows = append(s.Rows, []any{r.EntityCode, r.EntityName, r.Method, r.RMSE, r.MAE, r.MAPE, r.BestMethod})
	}
	return s
}

// WriteXLSX writes sheets, in order, as one workbook.
func WriteXLSX(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return ErrNoRows
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return err
		}

		header := make([]any, len(sheet.Header))
		for j, h := range sheet.Header {
			header[j] = h
		}
		if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
			return err
		}
		for j, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet.Name, cell, &row); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

// WriteScoreChart draws a bar chart of mean RMSE per method as PNG.
func WriteScoreChart(w io.Writer, title string, rep *backtest.Report) error {
	if len(rep.PerMethod) == 0 {
		return ErrNoRows
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = "RMSE"

	values := make(plotter.Values, len(rep.PerMethod))
	names := make([]string, len(rep.PerMethod))
	for i, ms := range rep.PerMethod {
		values[i] = ms.RMSE
		names[i] = fmt.Sprintf("%s (%.0f)", ms.Method, ms.Score)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.Add(plotter.NewGrid())
	p.NominalX(names...)

	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
