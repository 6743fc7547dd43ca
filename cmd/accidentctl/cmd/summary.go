package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/smartcity/accidents/internal/domain"
)

func newSummaryCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print summary statistics of the filtered accidents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dash, closeFn, err := o.loadDashboard(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			spec := o.filterSpec()
			summary, err := dash.GetSummary(spec)
			if err != nil {
				return err
			}
			view, err := dash.GetTableView(spec)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, view.Info)
			if summary.TotalAccidents == 0 {
				fmt.Fprintln(out, "No accidents match the selected filters.")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.AppendHeader(table.Row{"Statistic", "Value"})
			t.AppendRow(table.Row{"Total accidents", num.Sprintf("%d", summary.TotalAccidents)})
			if r := summary.DateRange; r != nil {
				t.AppendRow(table.Row{"Date range", r.From.Format("2006-01-02") + " to " + r.To.Format("2006-01-02")})
			}
			if summary.StatesCount != nil {
				t.AppendRow(table.Row{"States", *summary.StatesCount})
			}
			if summary.CitiesCount != nil {
				t.AppendRow(table.Row{"Cities", num.Sprintf("%d", *summary.CitiesCount)})
			}
			if summary.AvgTemperature != nil {
				t.AppendRow(table.Row{"Avg temperature (F)", fmt.Sprintf("%.2f", *summary.AvgTemperature)})
			}
			t.SetStyle(table.StyleLight)
			t.Render()

			renderCounts(out, "Severity", summary.SeverityDistribution, summary.TotalAccidents)
			renderCounts(out, "Weather", summary.MostCommonWeather, summary.TotalAccidents)
			return nil
		},
	}
}

func renderCounts(out io.Writer, title string, counts []domain.ValueCount, total int) {
	if len(counts) == 0 {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{title, "Accidents", "Share"})
	for _, vc := range counts {
		t.AppendRow(table.Row{vc.Value, num.Sprintf("%d", vc.Count), fmt.Sprintf("%.1f%%", float64(vc.Count)/float64(total)*100)})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
