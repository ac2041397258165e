package cliutil

import (
	"context"
	"fmt"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/oilpalm/driver"
	"github.com/spatialmodel/oilpalm/internal/initfile"
	"github.com/spatialmodel/oilpalm/internal/simerr"
	"github.com/spf13/cobra"
)

// Cfg holds the root command and its subcommands along with the viper
// instance used to resolve the --config flag.
type Cfg struct {
	*viper.Viper

	Root, runCmd, metCmd, netCmd *cobra.Command
}

// setConfig checks that the initialization file named by the --config
// flag, if one was given, can be read and parsed as key=value lines with
// recognised keys.
func setConfig(cfg *Cfg) error {
	if path := cfg.GetString("config"); path != "" {
		if _, err := initfile.ParseFile(path, allowedKeys); err != nil {
			return err
		}
	}
	return nil
}

// InitializeConfig builds the Root command and its run/met/net
// subcommands, wiring each to the initialization-file-driven
// driver.Config assembled by BuildConfig.
func InitializeConfig() *Cfg {
	cfg := &Cfg{Viper: viper.New()}

	cfg.Root = &cobra.Command{
		Use:   "oilpalm",
		Short: "An oil-palm growth and yield simulation model.",
		Long: `oilpalm simulates oil-palm canopy energy balance, photosynthesis,
soil-water balance and carbon partitioning from a daily weather record.
Use the subcommands below to run a simulation, summarize a weather
record, or inspect the planting network.

Configuration is read from an initialization file given with --config,
in the form of "key=value" lines.`,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setConfig(cfg)
		},
	}
	cfg.Root.PersistentFlags().String("config", "", "path to an initialization file")
	cfg.BindPFlag("config", cfg.Root.PersistentFlags().Lookup("config"))

	cfg.runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run a simulation.",
		Long:  "run reads an initialization file and a weather record, then advances the simulation day by day, writing the configured output files.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunSimulation(cmd.Context(), cfg)
		},
		DisableAutoGenTag: true,
	}
	cfg.runCmd.Flags().Int("days", 365, "number of days to simulate")
	cfg.BindPFlag("days", cfg.runCmd.Flags().Lookup("days"))
	cfg.runCmd.Flags().String("basedir", ".", "directory relative file paths in the initialization file are resolved against")
	cfg.BindPFlag("basedir", cfg.runCmd.Flags().Lookup("basedir"))

	cfg.metCmd = &cobra.Command{
		Use:   "met",
		Short: "Summarize a weather record.",
		Long:  "met reads the weather file named in the initialization file and reports summary statistics over the full record, without running the crop model.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunMetSummary(cfg)
		},
		DisableAutoGenTag: true,
	}
	cfg.metCmd.Flags().String("basedir", ".", "directory relative file paths in the initialization file are resolved against")
	cfg.BindPFlag("met.basedir", cfg.metCmd.Flags().Lookup("basedir"))

	cfg.netCmd = &cobra.Command{
		Use:   "net",
		Short: "Inspect a multi-plot planting network (not yet implemented).",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("net: multi-plot network mode is not implemented")
		},
		DisableAutoGenTag: true,
	}

	cfg.Root.AddCommand(cfg.runCmd, cfg.metCmd, cfg.netCmd)

	return cfg
}

// RunSimulation builds a driver.Sim from the configured initialization
// file and runs it for the requested number of days.
func RunSimulation(ctx context.Context, cfg *Cfg) error {
	path := cfg.GetString("config")
	if path == "" {
		return simerr.NewInput("run", fmt.Errorf("--config is required"))
	}
	baseDir := cfg.GetString("basedir")
	if baseDir == "" {
		baseDir = "."
	}
	dcfg, err := BuildConfig(path, baseDir)
	if err != nil {
		return err
	}
	sim, err := driver.NewSim(dcfg)
	if err != nil {
		return err
	}
	days := cfg.GetInt("days")
	if days <= 0 {
		days = 365
	}
	return sim.Run(ctx, days)
}

// RunMetSummary builds the weather source named by the configured
// initialization file and prints basic summary statistics over its
// full record. This supplements the simulation proper: it lets a user
// sanity-check a weather file before committing to a full run.
func RunMetSummary(cfg *Cfg) error {
	path := cfg.GetString("config")
	if path == "" {
		return simerr.NewInput("met", fmt.Errorf("--config is required"))
	}
	baseDir := cfg.GetString("met.basedir")
	if baseDir == "" {
		baseDir = "."
	}
	dcfg, err := BuildConfig(path, baseDir)
	if err != nil {
		return err
	}
	summary, err := SummarizeWeather(dcfg)
	if err != nil {
		return err
	}
	fmt.Print(summary)
	return nil
}
