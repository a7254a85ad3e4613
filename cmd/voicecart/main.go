package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/voicecart/voicecart/internal/profile"
	"github.com/voicecart/voicecart/server"
	"github.com/voicecart/voicecart/store"
	"github.com/voicecart/voicecart/store/db"
)

const version = "0.1.0"

var (
	instanceProfile *profile.Profile

	rootCmd = &cobra.Command{
		Use:   "voicecart",
		Short: "A voice-driven shopping assistant for the VoiceCart storefront",
		Run: func(_ *cobra.Command, _ []string) {
			instanceProfile = &profile.Profile{
				Mode:        viper.GetString("mode"),
				Addr:        viper.GetString("addr"),
				Port:        viper.GetInt("port"),
				Data:        viper.GetString("data"),
				Driver:      viper.GetString("driver"),
				DSN:         viper.GetString("dsn"),
				InstanceURL: viper.GetString("instance-url"),
				TurnTimeout: viper.GetDuration("turn-timeout"),
				Version:     version,
			}
			instanceProfile.FromEnv()
			if err := instanceProfile.Validate(); err != nil {
				slog.Error("invalid configuration", "error", err)
				os.Exit(1)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			dbDriver, err := db.NewDBDriver(instanceProfile)
			if err != nil {
				slog.Error("failed to create database driver", "error", err)
				os.Exit(1)
			}

			storeInstance := store.New(dbDriver, instanceProfile)
			if err := storeInstance.Migrate(ctx); err != nil {
				slog.Error("failed to migrate database", "error", err)
				os.Exit(1)
			}

			s, err := server.NewServer(ctx, instanceProfile, storeInstance)
			if err != nil {
				slog.Error("failed to create server", "error", err)
				os.Exit(1)
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			go func() {
				sig := <-sigCh
				slog.Info("received signal, shutting down", "signal", sig)
				cancel()
			}()

			printGreeting()
			if err := s.Start(ctx); err != nil {
				slog.Error("server error", "error", err)
			}
			s.Shutdown(context.Background())
		},
	}
)

func init() {
	viper.SetDefault("mode", "demo")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8230)
	viper.SetDefault("data", ".")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("turn-timeout", 5*time.Second)

	rootCmd.PersistentFlags().String("mode", "demo", `mode of the server, can be "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the server")
	rootCmd.PersistentFlags().Int("port", 8230, "port of the server")
	rootCmd.PersistentFlags().String("data", ".", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", `database driver, "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("dsn", "", "database source name")
	rootCmd.PersistentFlags().String("instance-url", "", "public url of the instance")
	rootCmd.PersistentFlags().Duration("turn-timeout", 5*time.Second, "per-turn resolution deadline")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn", "instance-url", "turn-timeout"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("voicecart")
	viper.AutomaticEnv()
}

func printGreeting() {
	fmt.Printf(`---
VoiceCart %s
mode:   %s
driver: %s
port:   %d
---
`, instanceProfile.Version, instanceProfile.Mode, instanceProfile.Driver, instanceProfile.Port)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to run command", "error", err)
		os.Exit(1)
	}
}
