package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/smartcity/accidents/internal/bootstrap"
	"github.com/smartcity/accidents/internal/config"
	"github.com/smartcity/accidents/internal/domain"
	"github.com/smartcity/accidents/internal/logging"
	"github.com/smartcity/accidents/internal/service"
)

var num = message.NewPrinter(language.English)

// options holds the persistent flags and what PersistentPreRunE resolves
type options struct {
	mode     string
	sample   int
	states   []string
	severity []int
	years    []int
	weather  []string
	verbose  bool

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCmd builds the accidentctl command tree
func NewRootCmd() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:   "accidentctl",
		Short: "US accidents explorer",
		Long: `accidentctl loads the US accidents dataset and prints the same views the
API serves: summary statistics, per-state aggregates and filtered exports.

Data source, dataset location and the default performance mode come from the
environment (.env included) or the YAML file named by CONFIG_FILE.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			o.cfg, err = config.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("mode") {
				o.mode = o.cfg.PerformanceMode
			}
			if !o.verbose {
				o.logger = zap.NewNop()
				return nil
			}
			o.logger, err = logging.New(false)
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&o.mode, "mode", "m", config.ModeFast, "performance mode: fast, balanced or full")
	pf.IntVar(&o.sample, "sample", 0, "explicit sample size, must be positive; overrides --mode")
	pf.StringSliceVarP(&o.states, "state", "s", nil, "filter by state code (repeatable)")
	pf.IntSliceVar(&o.severity, "severity", nil, "filter by severity level (repeatable)")
	pf.IntSliceVarP(&o.years, "year", "y", nil, "filter by year (repeatable)")
	pf.StringSliceVarP(&o.weather, "weather", "w", nil, "filter by weather condition (repeatable)")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "log progress to stderr")

	root.AddCommand(
		newFetchCmd(o),
		newSummaryCmd(o),
		newRegionsCmd(o),
		newExportCmd(o),
	)
	return root
}

// Execute runs the command tree and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func (o *options) filterSpec() domain.FilterSpec {
	return domain.FilterSpec{
		Severity: o.severity,
		States:   o.states,
		Years:    o.years,
		Weather:  o.weather,
	}
}

// loadDashboard loads the dataset and returns a dashboard over it
func (o *options) loadDashboard(cmd *cobra.Command) (*service.DashboardService, func(), error) {
	ctx := cmd.Context()
	size, err := config.SampleSizeForMode(o.mode)
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("sample") {
		n := o.sample
		size = &n
	}

	ds, closeFn := bootstrap.Dataset(ctx, o.cfg, o.logger)
	if _, err := ds.Load(ctx, size); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("load dataset: %w", err)
	}
	return service.NewDashboardService(ds, o.logger), closeFn, nil
}
