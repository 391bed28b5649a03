package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sartorproj/regionforecast/internal/export"
	"github.com/sartorproj/regionforecast/internal/service"
)

func newCompareCmd(flags *globalFlags) *cobra.Command {
	var (
		metric    string
		testYears int
		methods   []string
		details   bool
		tipe      string
		codes     string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Backtest forecasting methods on held-out years",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			codeList, err := service.ParseCodes(codes)
			if err != nil {
				return err
			}

			cmp, err := a.svc.Compare(cmd.Context(), service.CompareRequest{
				Metric:    metric,
				TestYears: testYears,
				Methods:   methods,
				Details:   details,
				Filter:    service.Filter{Tipe: tipe, Codes: codeList},
			})
			if err != nil {
				return err
			}

			if a.flags.exportDir != "" {
				e := &export.Exporter{Dir: a.flags.exportDir}
				if err := a.exported(e.Comparison(cmp.Metric, cmp.Report)); err != nil {
					return err
				}
			}

			if a.flags.jsonOut {
				if err := a.printJSON(cmp); err != nil {
					return err
				}
				return a.finish()
			}

			fmt.Fprintf(a.out, "metric=%s test_years=%d window=%d-%d series=%d\n",
				cmp.Metric, cmp.TestYears, cmp.StartYear, cmp.EndYear, cmp.SeriesCount)
			fmt.Fprintf(a.out, "%-8s %12s %12s %9s %7s  %-12s %s\n", "method", "rmse", "mae", "mape", "score", "label", "n")
			for _, ms := range cmp.PerMethod {
				fmt.Fprintf(a.out, "%-8s %12.3f %12.3f %8.2f%% %7.2f  %-12s %d\n",
					ms.Method, ms.RMSE, ms.MAE, ms.MAPE, ms.Score, ms.Label, ms.SeriesCount)
			}
			if cmp.HasBest() {
				fmt.Fprintf(a.out, "best: %s\n", cmp.Best())
			} else {
				fmt.Fprintln(a.out, "best: none")
			}
			for _, d := range cmp.Details {
				fmt.Fprintf(a.out, "%6d  %-36s best=%s\n", d.EntityCode, d.EntityName, d.BestMethod)
			}
			return a.finish()
		},
	}

	cmd.Flags().StringVar(&metric, "metric", "kemiskinan", "Metric to backtest")
	cmd.Flags().IntVar(&testYears, "test-years", 0, "Held-out years (0 = configured default)")
	cmd.Flags().StringSliceVar(&methods, "methods", nil, "Methods to compare (default from config)")
	cmd.Flags().BoolVar(&details, "details", false, "Include the per-entity breakdown")
	cmd.Flags().StringVar(&tipe, "tipe", "all", "Entity type: kota, kabupaten or all")
	cmd.Flags().StringVar(&codes, "kabkota", "", "Comma-separated entity codes")
	return cmd
}
