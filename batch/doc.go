// Package batch forecasts every entity of a multi-entity yearly table.
//
// Entities are fitted independently on a bounded worker pool and the rows
// come back in entity code order:
//
//	f := batch.New(forecast.NewEngine(5*time.Second, nil, log), 4, log)
//	res, err := f.Run(ctx, rows, forecast.MethodAuto, 5, forecast.AtLeast(0))
//
// Forecast years for an entity start after that entity's own last observed
// year. Result.StartYear and Result.EndYear are computed once from the
// maximum year of the whole table.
package batch
