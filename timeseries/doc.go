// Package timeseries provides the yearly series and multi-entity table types
// used by the forecasting packages.
//
// # Creating a Series
//
// Create a series from a slice, or with explicit years:
//
//	series := timeseries.New([]float64{100, 102, 105, 103, 108, 110})
//	series, err := timeseries.NewWithYears([]int{2019, 2020, 2021}, values)
//
// Missing values are represented as NaN and removed with DropMissing; they
// are never imputed.
//
// # Entity Panels
//
// A metric table holds one row per (entity, year). NewPanel groups the rows
// by entity, sorts each group by year, drops missing values and keeps the
// table-wide year range:
//
//	rows, err := timeseries.LoadCSV("fact_pkh.csv", opts)
//	panel, err := timeseries.NewPanel(rows)
//	for _, entity := range panel.Entities() {
//	    train, test := entity.Split(2022)
//	}
//
// Entities are always visited in (code, name) order so results built from a
// panel are reproducible.
//
// # Loading from CSV
//
// Metric tables are loaded with gota, keeping rows whose value is missing:
//
//	opts := timeseries.DefaultCSVOptions()
//	opts.ValueColumn = "jumlah_penerima_manfaat"
//	rows, err := timeseries.LoadCSV("fact_pkh.csv", opts)
package timeseries
