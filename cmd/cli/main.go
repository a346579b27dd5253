package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tomblanchard/crewcall/internal/config"
	"github.com/tomblanchard/crewcall/pkg/api"
	"github.com/tomblanchard/crewcall/pkg/core/availability"
	"github.com/tomblanchard/crewcall/pkg/core/timewindow"
	"github.com/tomblanchard/crewcall/pkg/metrics"
	"github.com/tomblanchard/crewcall/pkg/postgres"
	"github.com/tomblanchard/crewcall/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg      *config.Config
	database *postgres.DB
	engine   *availability.Engine
	registry *prometheus.Registry
	logger   *zap.Logger
	ctx      context.Context
}

var (
	env string
	app *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "crewcall",
		Short: "CrewCall CLI - Check staff and team availability for bookings",
		Long:  `A CLI tool for running availability checks and candidate rankings against the booking database.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.database != nil {
					app.database.Close()
				}
				if app.logger != nil {
					app.logger.Sync()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(checkAvailabilityCmd())
	rootCmd.AddCommand(listStaffCmd())
	rootCmd.AddCommand(listTeamsCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, database and the engine
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	app.logger.Info("Loading configuration")
	app.cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	app.logger.Info("Connecting to database")
	app.database, err = postgres.NewDB(app.ctx, app.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.logger.Debug("Database connection established")

	app.registry = prometheus.NewRegistry()
	opts := []availability.Option{
		availability.WithMetrics(metrics.New(app.registry)),
	}
	if app.cfg.MaxConcurrentEvaluations != nil {
		opts = append(opts, availability.WithConcurrencyLimit(*app.cfg.MaxConcurrentEvaluations))
	}
	app.engine = availability.NewEngine(app.database, app.logger, opts...)

	return nil
}

// Command definitions

func checkAvailabilityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkAvailability",
		Short: "Check which staff or teams can take a booking in the given window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dates, _ := cmd.Flags().GetStringArray("date")
			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")
			serviceID, _ := cmd.Flags().GetString("service")
			mode, _ := cmd.Flags().GetString("mode")
			excludeBookingID, _ := cmd.Flags().GetString("exclude-booking")

			window, err := timewindow.Parse(start, end)
			if err != nil {
				return err
			}
			for _, date := range dates {
				if _, err := timewindow.ParseDate(date); err != nil {
					return fmt.Errorf("invalid date %q: %w", date, err)
				}
			}

			result := app.engine.CheckAvailability(app.ctx, availability.Request{
				Dates:            dates,
				Window:           window,
				ServiceID:        serviceID,
				Mode:             availability.Mode(mode),
				ExcludeBookingID: excludeBookingID,
			})

			switch result.State {
			case availability.StateIdle:
				return fmt.Errorf("incomplete request: need at least one --date, --start, --end, --service and a valid --mode")
			case availability.StateFailed:
				return fmt.Errorf("availability check failed: %w", result.Err)
			}

			printResult(result, dates)
			return nil
		},
	}

	cmd.Flags().StringArray("date", nil, "Date to check (YYYY-MM-DD), repeatable for multi-date requests")
	cmd.Flags().String("start", "", "Window start time (HH:MM)")
	cmd.Flags().String("end", "", "Window end time (HH:MM)")
	cmd.Flags().String("service", "", "Service ID the booking is for")
	cmd.Flags().String("mode", "individual", "Candidate mode: individual or team")
	cmd.Flags().String("exclude-booking", "", "Booking ID to exclude from conflicts (when editing)")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	cmd.MarkFlagRequired("service")

	return cmd
}

func printResult(result availability.Result, dates []string) {
	candidates := result.Staff
	kind := "staff members"
	if len(result.Teams) > 0 {
		candidates = result.Teams
		kind = "teams"
	}

	fmt.Printf("\nRanked %d %s", len(candidates), kind)
	if result.ServiceSkillTag != "" {
		fmt.Printf(" (required skill: %s)", result.ServiceSkillTag)
	}
	fmt.Printf(":\n\n")

	for i, c := range candidates {
		marker := "✓"
		if !c.Available {
			marker = "✗"
		}
		fmt.Printf("  %2d. %s %s  score=%.1f  skill=%.0f  jobs=%d\n",
			i+1, marker, c.CandidateName, c.Score, c.SkillMatch, c.Workload)

		if len(dates) > 1 {
			fmt.Printf("      available %d/%d dates\n", c.AvailableDates, len(dates))
		}
		for _, conflict := range c.Conflicts {
			fmt.Printf("      conflict: %s %s", conflict.Date, conflict.Window)
			if conflict.ServiceName != "" {
				fmt.Printf(" (%s", conflict.ServiceName)
				if conflict.CustomerName != "" {
					fmt.Printf(" for %s", conflict.CustomerName)
				}
				fmt.Printf(")")
			}
			fmt.Println()
		}
		for _, reason := range c.UnavailabilityReasons {
			fmt.Printf("      %s\n", reason)
		}
	}
	fmt.Println()
}

func listStaffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listStaff",
		Short: "List all staff members with skills and average rating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			staff, err := app.database.ListStaff(app.ctx)
			if err != nil {
				return fmt.Errorf("failed to list staff: %w", err)
			}

			fmt.Printf("\nFound %d staff members:\n\n", len(staff))
			for _, s := range staff {
				fmt.Printf("- %s (%s) - rating %.1f - skills: %v\n", s.Name, s.ID, s.AvgRating, s.Skills)
			}

			return nil
		},
	}
}

func listTeamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listTeams",
		Short: "List all teams with their members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			teams, err := app.database.ListTeams(app.ctx)
			if err != nil {
				return fmt.Errorf("failed to list teams: %w", err)
			}

			fmt.Printf("\nFound %d teams:\n\n", len(teams))
			for _, t := range teams {
				status := "active"
				if !t.Active {
					status = "inactive"
				}
				fmt.Printf("- %s (%s) - %s - %d members\n", t.Name, t.ID, status, len(t.MemberIDs))
			}

			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the availability API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := api.NewAvailabilityHandler(app.engine, app.logger)
			server := api.NewServer(handler, app.registry, app.logger)

			fmt.Printf("Serving availability API on %s\n", app.cfg.ListenAddr)
			return server.ListenAndServe(app.cfg.ListenAddr)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.database.RunMigrations(app.ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			fmt.Println("✓ Migrations applied")
			return nil
		},
	}
}
