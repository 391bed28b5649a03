// Package regionforecast forecasts yearly metrics for many independent
// regional entities and ranks forecasting methods by backtested accuracy.
//
// # Quick Start
//
// Forecast every entity of a table with the automatic method chain:
//
//	rows, _ := timeseries.LoadCSV("fact_pkh.csv", opts)
//	f := batch.New(forecast.NewEngine(5*time.Second, nil, log), 0, log)
//	res, _ := f.Run(ctx, rows, forecast.MethodAuto, 5, forecast.AtLeast(0))
//
// Backtest methods on the last two years:
//
//	ev := backtest.New(engine, 0, backtest.EnglishLabels, log)
//	rep, _ := ev.Compare(ctx, rows, backtest.Options{TestYears: 2})
//	fmt.Println(rep.Best())
//
// # Packages
//
//   - timeseries: series, entity panels and CSV loading
//   - stats: ACF, Ljung-Box, information criteria and accuracy metrics
//   - arima: ARIMA(p,d,q) models
//   - holt: Holt linear-trend exponential smoothing
//   - forecast: per-series methods, automatic fallback and clipping
//   - batch: per-entity forecasting over a table
//   - backtest: holdout evaluation and method ranking
//
// The regionforecast command in cmd/regionforecast wires these to YAML
// configuration, a result cache, Prometheus metrics and file export.
//
// # References
//
//   - Hyndman, R.J., & Athanasopoulos, G. (2021). Forecasting: Principles and Practice
//   - Box, G. E. P., & Jenkins, G. M. (1976). Time Series Analysis: Forecasting and Control
package regionforecast
