package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/smartcity/accidents/internal/service"
)

func newRegionsCmd(o *options) *cobra.Command {
	var metric string

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "Print per-state aggregates of the filtered accidents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := service.ParseRegionMetric(metric)
			if err != nil {
				return err
			}

			dash, closeFn, err := o.loadDashboard(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			agg, err := dash.GetRegions(o.filterSpec(), m)
			if err != nil {
				return err
			}
			if agg.Fallback {
				fmt.Fprintln(cmd.ErrOrStderr(), "temperature not available, showing counts")
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"State", "Accidents", "Mean severity", "Mean temp (F)", string(agg.Metric)})
			total := 0
			for _, r := range agg.Regions {
				total += r.Count
				t.AppendRow(table.Row{r.State, num.Sprintf("%d", r.Count), optional(r.MeanSeverity), optional(r.MeanTemperature), fmt.Sprintf("%.2f", r.Value)})
			}
			t.AppendSeparator()
			t.AppendFooter(table.Row{"Total", num.Sprintf("%d", total), "", "", ""})
			t.SetStyle(table.StyleLight)
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&metric, "metric", "count", "value per state: count, severity or temperature")
	return cmd
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
