package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/brand-provenance/deployer/configs"
	"github.com/brand-provenance/deployer/internal/contracts"
	"github.com/brand-provenance/deployer/internal/deploy"
	"github.com/brand-provenance/deployer/internal/devnode"
	"github.com/brand-provenance/deployer/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	appName   = "deployer"
	envPrefix = "DEPLOYER"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "CLI for deploying the brand verification and product series contracts",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env never overrides variables already set in the environment.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}

		viper.SetEnvPrefix(envPrefix)
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		viper.AutomaticEnv()

		level, err := logger.ParseLevel(viper.GetString("log-level"))
		if err != nil {
			return err
		}
		logger.Initialize(level)

		if err := configs.LoadDefaults(viper.GetViper()); err != nil {
			const errMsg = "unable to load default config"
			slog.With("err", err.Error()).Error(errMsg)
			return errors.Join(err, errors.New(errMsg))
		}

		if configFile != "" {
			viper.SetConfigFile(configFile)
		} else {
			viper.SetConfigName("config")
			if execPath, err := os.Executable(); err == nil {
				viper.AddConfigPath(filepath.Dir(execPath))
			}
			viper.AddConfigPath(".")
			viper.AddConfigPath("./configs")
		}

		// A missing config file is fine, defaults, env and flags cover everything.
		if err := viper.MergeInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				slog.Debug("no config file found, will rely on defaults, env and flags")
			} else {
				const errMsg = "error reading config file"
				slog.With("err", err.Error()).Error(errMsg)
				return errors.Join(err, errors.New(errMsg))
			}
		} else {
			slog.With("config_file", viper.ConfigFileUsed()).Debug("config file loaded")
		}

		if err := viper.Unmarshal(&configs.Values); err != nil {
			const errMsg = "unable to decode application config"
			slog.With("err", err.Error()).Error(errMsg)
			return errors.Join(err, errors.New(errMsg))
		}

		slog.
			With("rpc_url", configs.Values.Chain.RPCURL).
			With("artifacts", configs.Values.Deploy.Artifacts).
			With("explorer_network", configs.Values.Explorer.Network).
			Debug("configuration loaded")

		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default: config.yaml next to the binary, in . or ./configs)")
	flags.String("log-level", "warn", "Log level: debug, info, warn or error")
	flags.StringP("output", "o", "text", "Run summary format: text, yaml or json")

	for _, name := range []string{"log-level", "output"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(deploy.CMD)
	rootCmd.AddCommand(deploy.NetworksCMD)
	rootCmd.AddCommand(contracts.CMD)
	rootCmd.AddCommand(devnode.CMD)
}

// execute runs the CLI with args and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		slog.With("err", err.Error()).Debug("failed to execute root command")
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
