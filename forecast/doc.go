/*
Package forecast produces point forecasts for a single yearly series.

Four methods are available:

	holt    additive-trend exponential smoothing
	arima   ARIMA(1,1,1)
	linear  least-squares trend on the time index
	naive   the last observation repeated

Each method handles degenerate input itself. An empty series forecasts
zeros; a series shorter than the method minimum, or with a single distinct
value, forecasts its last value.

# Automatic selection

MethodAuto runs a fixed chain: holt, then linear, then naive. The first
method that succeeds wins. ARIMA is reachable only by explicit selection.

	sel := forecast.DefaultSelector()
	out := sel.Select([]float64{10, 12, 15, 15, 18}, 3)
	fmt.Println(out.Method, out.Values)

Every try is recorded as an Attempt in Outcome.Attempts, so the path taken
through the chain can be inspected after the fact.

# Engine

Engine adds a per-attempt timeout and an Observer hook:

	eng := forecast.NewEngine(5*time.Second, nil, zerolog.Nop())
	out := eng.ForecastWithFallback(ctx, forecast.MethodARIMA, values, 5)
	if out.Method != forecast.MethodARIMA {
		// arima failed and the automatic chain took over
	}

A timed-out attempt counts as a failure. Forecast never falls back;
ForecastWithFallback falls back to the automatic chain.

# Clipping

	clipped := forecast.Clip(out.Values, forecast.Between(0, 100))
*/
package forecast
