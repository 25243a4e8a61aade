package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath string
	envFile    string
	maxPolls   int
)

var rootCmd = &cobra.Command{
	Use:   "peridrv",
	Short: "Peripheral demo app for the BeagleBone Black",
	Long: `peridrv shows the HC-SR04 distance and the analog inputs on the OLED,
and runs LED and servo PWM demos from a two-button menu.

Exit status tells the launcher what to run next:
  0   stopped without a command (--polls reached or interrupted)
  1   error: bad configuration, no hardware, failed reading
  11  return to the system menu
  12  idle timeout, rotate to the next app
  16  next app chosen from the menu`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		h, err := newHost(cfg)
		if err != nil {
			return err
		}
		defer h.Close()

		events := NewEventLogger(cfg.LogFile)
		app, err := NewController(cfg, newRanger(cfg), events)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sched := NewScheduler(cfg.PollInterval(), events)
		sched.MaxPolls = maxPolls
		c := sched.Run(ctx, app, h)
		switch {
		case c.Handoff():
			log.Printf("handing off to the next app (%s)", c)
		case c != CommandNone:
			log.Printf("returning to the launcher (%s)", c)
		default:
			return nil
		}
		h.Close()
		os.Exit(c.ExitCode())
		return nil
	},
}

var measureCmd = &cobra.Command{
	Use:   "measure",
	Short: "Take one HC-SR04 reading through the PRU and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		d, err := newRanger(cfg).Distance()
		if !usableReading(err) {
			return err
		}
		if err != nil {
			log.Printf("warning: %v", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%.1f cm\n", d)
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change one setting in the config file, e.g. set timing.idle_max 600",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := LoadEnv(envFile); err != nil {
			return err
		}
		cm := NewConfigManager(configPath)
		if err := cm.Load(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := cm.Update(func(c *Config) error { return c.Set(args[0], args[1]) }); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (saved to %s)\n", args[0], args[1], cm.Path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $PERIDRV_CONFIG or peridrv.json)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "environment file loaded before the config")
	rootCmd.Flags().IntVar(&maxPolls, "polls", 0, "stop after this many poll cycles (0 = no limit)")
	rootCmd.AddCommand(measureCmd, setCmd)
}

func loadConfig() (Config, error) {
	if err := LoadEnv(envFile); err != nil {
		return Config{}, err
	}
	cm := NewConfigManager(configPath)
	if err := cm.Load(); err != nil {
		return Config{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cm.Get(), nil
}

func newRanger(cfg Config) Ranger {
	timeout := time.Duration(cfg.PRU.WaitTimeoutMS) * time.Millisecond
	return NewPRURanger(NewPRUSS(cfg.PRU.Event), cfg.PRU.Firmware, timeout)
}

// Entry point for the peripheral demo app
func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("peridrv: %v", err)
		os.Exit(ExitError)
	}
}
