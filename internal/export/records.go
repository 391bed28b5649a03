// Package export writes forecast and comparison results to CSV, XLSX and
// PNG files.
package export

import (
	"fmt"

	"github.com/sartorproj/regionforecast/backtest"
	"github.com/sartorproj/regionforecast/batch"
)

// ForecastRecord is one exported forecast row.
type ForecastRecord struct {
	Metric     string  `dataframe:"metric"`
	Year       int     `dataframe:"year"`
	EntityCode int     `dataframe:"entity_code"`
	EntityName string  `dataframe:"entity_name"`
	Value      float64 `dataframe:"value"`
}

// ScoreRecord is one exported per-method summary row.
type ScoreRecord struct {
	Method      string  `dataframe:"method"`
	RMSE        float64 `dataframe:"rmse"`
	MAE         float64 `dataframe:"mae"`
	MAPE        float64 `dataframe:"mape"`
	Score       float64 `dataframe:"score"`
	Label       string  `dataframe:"label"`
	SeriesCount int     `dataframe:"series_count"`
}

// DetailRecord is one exported (entity, method) score row.
type DetailRecord struct {
	EntityCode int     `dataframe:"entity_code"`
	EntityName string  `dataframe:"entity_name"`
	Method     string  `dataframe:"method"`
	RMSE       float64 `dataframe:"rmse"`
	MAE        float64 `dataframe:"mae"`
	MAPE       float64 `dataframe:"mape"`
	BestMethod string  `dataframe:"best_method"`
}

// ForecastRecords flattens a forecast result for metric.
func ForecastRecords(metric string, res *batch.Result) []ForecastRecord {
	out := make([]ForecastRecord, len(res.Rows))
	for i, r := range res.Rows {
		out[i] = ForecastRecord{
			Metric:     metric,
			Year:       r.Year,
			EntityCode: r.EntityCode,
			EntityName: r.EntityName,
			Value:      r.Value,
		}
	}
	return out
}

// ScoreRecords flattens the per-method summary of rep.
func ScoreRecords(rep *backtest.Report) []ScoreRecord {
	out := make([]ScoreRecord, len(rep.PerMethod))
	for i, ms := range rep.PerMethod {
		out[i] = ScoreRecord{
			Method:      ms.Method.String(),
			RMSE:        ms.RMSE,
			MAE:         ms.MAE,
			MAPE:        ms.MAPE,
			Score:       ms.Score,
			Label:       ms.Label,
			SeriesCount: ms.SeriesCount,
		}
	}
	return out
}

// DetailRecords flattens the per-entity breakdown of rep.
func DetailRecords(rep *backtest.Report) []DetailRecord {
	var out []DetailRecord
	for _, d := range rep.Details {
		for _, s := range d.Scores {
			out = append(out, DetailRecord{
				EntityCode: d.EntityCode,
				EntityName: d.EntityName,
				Method:     s.Method.String(),
				RMSE:       s.RMSE,
				MAE:        s.MAE,
				MAPE:       s.MAPE,
				BestMethod: d.BestMethod.String(),
			})
		}
	}
	return out
}

// ForecastFileName names a forecast export without extension.
func ForecastFileName(metric, method string, start, end int) string {
	return fmt.Sprintf("pred_%s_%s_%d_%d", metric, method, start, end)
}

// CompareFileName names a comparison export without extension.
func CompareFileName(metric string, start, end int, details bool) string {
	name := fmt.Sprintf("compare_%s_%d_%d", metric, start, end)
	if details {
		name += "_details"
	}
	return name
}
