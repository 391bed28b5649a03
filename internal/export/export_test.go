package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sartorproj/regionforecast/backtest"
	"github.com/sartorproj/regionforecast/batch"
	"github.com/sartorproj/regionforecast/forecast"
)

func sampleReport() *backtest.Report {
	best := forecast.MethodHolt
	return &backtest.Report{
		StartYear:   2022,
		EndYear:     2023,
		SeriesCount: 2,
		PerMethod: []backtest.MethodScore{
			{Method: forecast.MethodHolt, RMSE: 1.5, MAE: 1.2, MAPE: 4, Score: 96, Label: "Excellent", SeriesCount: 2},
			{Method: forecast.MethodLinear, RMSE: 2.5, MAE: 2, MAPE: 8, Score: 92, Label: "Excellent", SeriesCount: 2},
		},
		BestMethod: &best,
		Details: []backtest.EntityDetail{{
			EntityCode: 3171,
			EntityName: "KOTA JAKARTA",
			BestMethod: forecast.MethodHolt,
			Scores: []backtest.EntityScore{
				{Method: forecast.MethodHolt, RMSE: 1, MAE: 1, MAPE: 2},
				{Method: forecast.MethodLinear, RMSE: 2, MAE: 2, MAPE: 4},
			},
		}},
	}
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "pred_pkh_auto_2024_2028", ForecastFileName("pkh", "auto", 2024, 2028))
	assert.Equal(t, "compare_kemiskinan_2022_2023", CompareFileName("kemiskinan", 2022, 2023, false))
	assert.Equal(t, "compare_kemiskinan_2022_2023_details", CompareFileName("kemiskinan", 2022, 2023, true))
}

func TestWriteCSV(t *testing.T) {
	res := &batch.Result{Rows: []batch.Row{
		{Year: 2024, EntityCode: 3171, EntityName: "KOTA JAKARTA", Value: 18},
		{Year: 2025, EntityCode: 3171, EntityName: "KOTA JAKARTA", Value: 20},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ForecastRecords("pkh", res)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "metric,year,entity_code,entity_name,value", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "pkh,2024,3171,KOTA JAKARTA,18"), lines[1])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteCSV[ScoreRecord](&buf, nil), ErrNoRows)
}

func TestDetailRecords(t *testing.T) {
	records := DetailRecords(sampleReport())
	require.Len(t, records, 2)
	assert.Equal(t, "holt", records[0].BestMethod)
	assert.Equal(t, "linear", records[1].Method)
}

func TestWriteXLSX(t *testing.T) {
	rep := sampleReport()
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, ScoreSheet(ScoreRecords(rep)), DetailSheet(DetailRecords(rep))))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"summary", "details"}, f.GetSheetList())
	rows, err := f.GetRows("summary")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "method", rows[0][0])
	assert.Equal(t, "holt", rows[1][0])
}

func TestExporterComparison(t *testing.T) {
	dir := t.TempDir()
	e := &Exporter{Dir: dir}

	paths, err := e.Comparison("kemiskinan", sampleReport())
	require.NoError(t, err)

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
	assert.Equal(t, []string{
		"compare_kemiskinan_2022_2023.csv",
		"compare_kemiskinan_2022_2023.png",
		"compare_kemiskinan_2022_2023.xlsx",
		"compare_kemiskinan_2022_2023_details.csv",
	}, names)
}

func TestExporterEmpty(t *testing.T) {
	e := &Exporter{Dir: t.TempDir()}
	_, err := e.Comparison("pkh", &backtest.Report{})
	assert.ErrorIs(t, err, ErrNoRows)
	_, err = e.Forecast("pred", nil)
	assert.ErrorIs(t, err, ErrNoRows)
}
