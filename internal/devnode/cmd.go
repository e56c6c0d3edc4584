package devnode

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brand-provenance/deployer/configs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	CMD = &cobra.Command{
		Use:   "devnode",
		Short: "Commands for running a local anvil node for localNet deployments",
	}

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the local anvil node in Docker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, svc *Service) error {
				url, err := svc.Start(ctx)
				if err != nil {
					return fmt.Errorf("error occurred starting dev node: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Dev node RPC available at %s\n", url)
				return nil
			})
		},
	}

	stopCmd = &cobra.Command{
		Use:   "stop",
		Short: "Stop and remove the local anvil node",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, svc *Service) error {
				if err := svc.Stop(ctx); err != nil {
					return fmt.Errorf("error occurred stopping dev node: %w", err)
				}
				return nil
			})
		},
	}
)

func init() {
	declareStringFlag("image", "devnode.image", "Docker image providing the anvil binary")
	declareStringFlag("container-name", "devnode.container-name", "Name of the dev node container")
	declareIntFlag("port", "devnode.port", "Host port for the dev node RPC")
	declareIntFlag("chain-id", "devnode.chain-id", "Chain ID served by the dev node")

	CMD.AddCommand(startCmd)
	CMD.AddCommand(stopCmd)
}

func withService(ctx context.Context, fn func(context.Context, *Service) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	docker, err := newDockerClient()
	if err != nil {
		return fmt.Errorf("failed to create docker client: %w", err)
	}
	defer func() {
		if err := docker.Close(); err != nil {
			slog.With("err", err.Error()).Warn("failed to close docker client")
		}
	}()

	return fn(ctx, newService(cfg, docker))
}

func loadConfig() (configs.DevNode, error) {
	// Re-unmarshal to include flag overrides.
	if err := viper.Unmarshal(&configs.Values); err != nil {
		return configs.DevNode{}, fmt.Errorf("failed to unmarshal config with flag overrides: %w", err)
	}
	return configs.Values.DevNode, nil
}

// Defaults come from the embedded config, so flags only override when set.
func declareStringFlag(name, key, description string) {
	CMD.PersistentFlags().String(name, "", description)
	if err := viper.BindPFlag(key, CMD.PersistentFlags().Lookup(name)); err != nil {
		panic(err)
	}
}

func declareIntFlag(name, key, description string) {
	CMD.PersistentFlags().Int(name, 0, description)
	if err := viper.BindPFlag(key, CMD.PersistentFlags().Lookup(name)); err != nil {
		panic(err)
	}
}
