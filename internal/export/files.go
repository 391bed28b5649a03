package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sartorproj/regionforecast/backtest"
)

// Exporter writes result files into Dir.
type Exporter struct {
	Dir string
}

// Forecast writes records as CSV and XLSX and returns the paths written.
func (e *Exporter) Forecast(name string, records []ForecastRecord) ([]string, error) {
	if len(records) == 0 {
		return nil, ErrNoRows
	}

	var csvBuf, xlsxBuf bytes.Buffer
	if err := WriteCSV(&csvBuf, records); err != nil {
		return nil, err
	}
	if err := WriteXLSX(&xlsxBuf, ForecastSheet(records)); err != nil {
		return nil, err
	}
	return e.writeAll(map[string][]byte{
		name + ".csv":  csvBuf.Bytes(),
		name + ".xlsx": xlsxBuf.Bytes(),
	})
}

// Comparison writes the summary, the optional details and a chart of rep.
// Empty parts are skipped.
func (e *Exporter) Comparison(metric string, rep *backtest.Report) ([]string, error) {
	files := make(map[string][]byte)
	var sheets []Sheet

	if scores := ScoreRecords(rep); len(scores) > 0 {
		name := CompareFileName(metric, rep.StartYear, rep.EndYear, false)
		var buf, chart bytes.Buffer
		if err := WriteCSV(&buf, scores); err != nil {
			return nil, err
		}
		title := fmt.Sprintf("%s backtest %d-%d", metric, rep.StartYear, rep.EndYear)
		if err := WriteScoreChart(&chart, title, rep); err != nil {
			return nil, err
		}
		files[name+".csv"] = buf.Bytes()
		files[name+".png"] = chart.Bytes()
		sheets = append(sheets, ScoreSheet(scores))
	}

	if details := DetailRecords(rep); len(details) > 0 {
		var buf bytes.Buffer
		if err := WriteCSV(&buf, details); err != nil {
			return nil, err
		}
		files[CompareFileName(metric, rep.StartYear, rep.EndYear, true)+".csv"] = buf.Bytes()
		sheets = append(sheets, DetailSheet(details))
	}

	if len(sheets) == 0 {
		return nil, ErrNoRows
	}
	var xlsx bytes.Buffer
	if err := WriteXLSX(&xlsx, sheets...); err != nil {
		return nil, err
	}
	files[CompareFileName(metric, rep.StartYear, rep.EndYear, false)+".xlsx"] = xlsx.Bytes()

	return e.writeAll(files)
}

func (e *Exporter) writeAll(files map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	paths := make([]string, 0, len(files))
	for name, data := range files {
		path := filepath.Join(e.Dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}
