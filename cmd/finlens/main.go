package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/finlens/internal/common"
	"github.com/Veraticus/finlens/internal/config"
	"github.com/Veraticus/finlens/internal/service"
	"github.com/Veraticus/finlens/internal/state"
	"github.com/Veraticus/finlens/internal/storage"
)

var version = "dev"

// app carries what every command needs. The store is opened on first use so
// commands like version never touch it.
type app struct {
	v         *viper.Viper
	cfg       *config.Config
	store     service.Store
	mgr       *state.Manager
	now       func() time.Time
	cfgFile   string
	ownsStore bool
}

func newApp() *app {
	return &app{
		v:   viper.New(),
		now: time.Now,
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "finlens",
		Short: "🔎 Personal finance calculators for your terminal",
		Long: `finlens: loan payoff schedules, investment targets, contribution plans and
a budget estimator that pulls the other tools' results together.

Everything is stored locally.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			a.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/finlens/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("storage", config.DriverSQLite, "state store (sqlite, redis, memory)")
	rootCmd.PersistentFlags().String("db", config.DefaultStoragePath, "SQLite database path")

	_ = a.v.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = a.v.BindPFlag("storage.driver", rootCmd.PersistentFlags().Lookup("storage"))
	_ = a.v.BindPFlag("storage.path", rootCmd.PersistentFlags().Lookup("db"))

	rootCmd.AddCommand(loanCmd(a))
	rootCmd.AddCommand(targetCmd(a))
	rootCmd.AddCommand(plannerCmd(a))
	rootCmd.AddCommand(budgetCmd(a))
	rootCmd.AddCommand(profileCmd(a))
	rootCmd.AddCommand(reportCmd(a))
	rootCmd.AddCommand(serveCmd(a))
	rootCmd.AddCommand(clearCmd(a))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd(newApp()).ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) initConfig(_ *cobra.Command, _ []string) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		dir, err := config.ConfigDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		a.v.AddConfigPath(dir)
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("FINLENS")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := common.SetupLogger(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

// manager opens the configured store on first use.
func (a *app) manager(ctx context.Context) (*state.Manager, error) {
	if a.mgr != nil {
		return a.mgr, nil
	}
	if a.store == nil {
		store, err := storage.Open(ctx, a.cfg.Storage)
		if err != nil {
			return nil, common.NewUserError("could not open the finlens state store", err)
		}
		a.store = store
		a.ownsStore = true
	}
	a.mgr = state.NewManager(a.store).WithClock(a.now)
	return a.mgr, nil
}

// close releases a store opened by manager. Injected stores stay open.
func (a *app) close() {
	a.mgr = nil
	if !a.ownsStore {
		return
	}
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close state store", "error", err)
	}
	a.store = nil
	a.ownsStore = false
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			writef(cmd.OutOrStdout(), "finlens %s\n", version)
		},
	}
}
