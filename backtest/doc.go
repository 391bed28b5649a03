/*
Package backtest ranks forecasting methods by how well they predict held-out
years.

The last TestYears distinct years of the table are held out. Every entity
with at least three earlier observations and a full holdout is forecast
from its earlier years by each method, and the clipped forecast is scored
against the held-out values with RMSE, MAE and MAPE. Scores are averaged per
method over the entities that method could fit.

	ev := backtest.New(engine, 0, backtest.EnglishLabels, log)
	rep, err := ev.Compare(ctx, rows, backtest.Options{
		TestYears: 2,
		Methods:   forecast.CompareMethods(),
		Bounds:    forecast.Between(0, 100),
		Details:   true,
	})

A method's composite score is max(0, 100 - MAPE) and falls into one of four
bands at 85, 70 and 55. The best method has the lowest mean RMSE; ties go to
the method listed first.
*/
package backtest
