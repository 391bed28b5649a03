package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sartorproj/regionforecast/forecast"
	"github.com/sartorproj/regionforecast/internal/export"
	"github.com/sartorproj/regionforecast/internal/service"
)

func newPredictCmd(flags *globalFlags) *cobra.Command {
	var (
		metric  string
		horizon int
		method  string
		tipe    string
		codes   string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Forecast every entity of a metric",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			codeList, err := service.ParseCodes(codes)
			if err != nil {
				return err
			}
			m, err := parseMethodFlag(method)
			if err != nil {
				return err
			}

			pred, err := a.svc.Predict(cmd.Context(), service.PredictRequest{
				Metric:  metric,
				Horizon: horizon,
				Method:  m.String(),
				Filter:  service.Filter{Tipe: tipe, Codes: codeList},
			})
			if err != nil {
				return err
			}

			if a.flags.exportDir != "" {
				var records []export.ForecastRecord
				for _, name := range a.cfg.MetricNames() {
					if res, ok := pred.Results[name]; ok {
						records = append(records, export.ForecastRecords(name, res)...)
					}
				}
				e := &export.Exporter{Dir: a.flags.exportDir}
				name := export.ForecastFileName(pred.Metric, m.String(), pred.StartYear, pred.EndYear)
				if err := a.exported(e.Forecast(name, records)); err != nil {
					return err
				}
			}

			if a.flags.jsonOut {
				if err := a.printJSON(pred); err != nil {
					return err
				}
				return a.finish()
			}

			fmt.Fprintf(a.out, "metric=%s horizon=%d method=%s years=%d-%d\n",
				pred.Metric, pred.Horizon, pred.Method, pred.StartYear, pred.EndYear)
			for _, name := range a.cfg.MetricNames() {
				res, ok := pred.Results[name]
				if !ok {
					continue
				}
				fmt.Fprintf(a.out, "\n[%s] %d rows, methods %v\n", name, len(res.Rows), res.MethodCounts)
				for _, r := range res.Rows {
					fmt.Fprintf(a.out, "%6d  %-36s %d  %14.3f\n", r.EntityCode, r.EntityName, r.Year, r.Value)
				}
			}
			return a.finish()
		},
	}

	cmd.Flags().StringVar(&metric, "metric", service.MetricAll, "Metric to forecast, or all")
	cmd.Flags().IntVar(&horizon, "horizon", 0, "Years to forecast (0 = configured default)")
	cmd.Flags().StringVar(&method, "method", "auto", "One of: "+methodList(forecast.Methods()))
	cmd.Flags().StringVar(&tipe, "tipe", "all", "Entity type: kota, kabupaten or all")
	cmd.Flags().StringVar(&codes, "kabkota", "", "Comma-separated entity codes")
	return cmd
}
