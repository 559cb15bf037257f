package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
	"github.com/andrescamacho/headquartz-go/internal/application/tick"
	"github.com/andrescamacho/headquartz-go/internal/domain/events"
	"github.com/andrescamacho/headquartz-go/internal/domain/shared"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// NewSimulateCommand creates the simulate command
func NewSimulateCommand() *cobra.Command {
	var (
		days        int
		seed        int64
		eventChance float64
		showEvents  int
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a headless simulation locally and print the outcome",
		Long: `Run a simulation in-process without a daemon. The same seed always
produces the same company.

Example:
  headquartz simulate --days 360 --seed 7 --events 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}

			var logger common.Logger = common.NoOpLogger{}
			if verbose {
				logger = common.NewStdLogger("simulate", "debug", "text", log.New(cmd.ErrOrStderr(), "", log.LstdFlags))
			}

			cfg := world.DefaultConfig()
			cfg.Seed = seed
			if cmd.Flags().Changed("event-chance") {
				cfg.RandomEventProbability = eventChance
			}
			w := world.New(cfg)
			if err := w.SeedDefaults(); err != nil {
				return fmt.Errorf("failed to seed world: %w", err)
			}

			manager := tick.NewManager(logger, nil)
			for _, p := range tick.DefaultProcessors(logger) {
				manager.Register(p)
			}
			engine := simulation.NewEngine(w, manager, shared.NewRealClock(), logger, simulation.DefaultConfig())

			for i := 0; i < days; i++ {
				if err := engine.Step(); err != nil {
					return fmt.Errorf("day %d failed: %w", i+1, err)
				}
			}

			out := cmd.OutOrStdout()
			stats := engine.Statistics()
			printStatistics(out, &stats)

			if showEvents > 0 {
				var recent []events.GameEvent
				_ = engine.Exec(func(w *world.World) error {
					recent = w.RecentEvents(showEvents)
					return nil
				})
				fmt.Fprintf(out, "\nLast %d events:\n", len(recent))
				for _, e := range recent {
					printRecord(out, e.Record())
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "Number of days to simulate")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed")
	cmd.Flags().Float64Var(&eventChance, "event-chance", 0, "Daily random event probability (default from world config)")
	cmd.Flags().IntVar(&showEvents, "events", 0, "Print the last N events")
	return cmd
}
