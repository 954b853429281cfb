// Package main is the entry point for the arena shell
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/KirkDiggler/arena/internal/errors"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "Turn-based combat arena",
	Long: `Arena runs turn-based battles between warriors, mages, archers and rangers.
Battles can be played interactively, simulated from a roster file, and every
battle fought is recorded.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errors.GetCode(err).ExitCode())
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.arena.yaml)")
	flags.String("redis-addr", "", "redis address for battle records; in-memory when empty")
	flags.String("redis-password", "", "redis password")
	flags.Int("redis-db", 0, "redis database")
	flags.Int64("seed", 0, "seed for archer rolls; 0 uses the default roller")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")

	for key, flag := range map[string]string{
		"redis_addr":     "redis-addr",
		"redis_password": "redis-password",
		"redis_db":       "redis-db",
		"seed":           "seed",
		"log_level":      "log-level",
		"log_format":     "log-format",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(historyCmd)
}

// initConfig reads the config file and ARENA_* environment variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".arena")
	}

	viper.SetEnvPrefix("arena")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Warning: could not read config: %v\n", err)
		}
	}
}
