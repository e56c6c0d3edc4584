package devnode

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/brand-provenance/deployer/configs"
	"github.com/brand-provenance/deployer/internal/chain"
	"github.com/brand-provenance/deployer/internal/logger"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
)

const (
	anvilPort       = "8545"
	rpcWaitAttempts = 60
	rpcWaitInterval = time.Second
)

type (
	engine interface {
		ImageExists(ctx context.Context, imageName string) (bool, error)
		PullImage(ctx context.Context, imageName string) error
		Inspect(ctx context.Context, name string) (ContainerState, error)
		RunDetached(ctx context.Context, spec ContainerSpec) (string, error)
		Remove(ctx context.Context, name string) error
	}

	rpcWaiter func(ctx context.Context, url string, attempts int, interval time.Duration) error

	// Service runs a local anvil node in Docker for localNet deployments.
	Service struct {
		cfg     configs.DevNode
		engine  engine
		waitRPC rpcWaiter
		logger  *slog.Logger
	}
)

func newService(cfg configs.DevNode, engine engine) *Service {
	return &Service{
		cfg:     cfg,
		engine:  engine,
		waitRPC: chain.WaitForRPC,
		logger:  logger.Named("devnode"),
	}
}

// RPCURL is the host URL of the node's JSON-RPC endpoint.
func (s *Service) RPCURL() string {
	return fmt.Sprintf("http://localhost:%d", s.cfg.Port)
}

// Start runs the node unless it is already running and waits for its RPC.
func (s *Service) Start(ctx context.Context) (string, error) {
	if err := s.cfg.Validate(); err != nil {
		return "", err
	}

	log := s.logger.With("container", s.cfg.ContainerName)

	state, err := s.engine.Inspect(ctx, s.cfg.ContainerName)
	if err != nil {
		return "", err
	}
	if state.Running {
		log.Info("dev node already running")
		return s.RPCURL(), nil
	}
	if state.Exists {
		log.Info("removing stopped dev node container")
		if err := s.engine.Remove(ctx, s.cfg.ContainerName); err != nil {
			return "", err
		}
	}

	exists, err := s.engine.ImageExists(ctx, s.cfg.Image)
	if err != nil {
		return "", fmt.Errorf("failed to check image %s: %w", s.cfg.Image, err)
	}
	if !exists {
		if err := s.engine.PullImage(ctx, s.cfg.Image); err != nil {
			return "", err
		}
	}

	spec, err := containerSpec(s.cfg)
	if err != nil {
		return "", err
	}

	id, err := s.engine.RunDetached(ctx, spec)
	if err != nil {
		return "", err
	}
	log.With("id", id).With("url", s.RPCURL()).Info("dev node container started, waiting for RPC")

	if err := s.waitRPC(ctx, s.RPCURL(), rpcWaitAttempts, rpcWaitInterval); err != nil {
		return "", err
	}

	log.Info("dev node is ready")

	return s.RPCURL(), nil
}

// Stop removes the node container if it exists.
func (s *Service) Stop(ctx context.Context) error {
	state, err := s.engine.Inspect(ctx, s.cfg.ContainerName)
	if err != nil {
		return err
	}
	if !state.Exists {
		s.logger.With("container", s.cfg.ContainerName).Info("dev node container not found, nothing to stop")
		return nil
	}

	return s.engine.Remove(ctx, s.cfg.ContainerName)
}

func containerSpec(cfg configs.DevNode) (ContainerSpec, error) {
	port, err := nat.NewPort("tcp", anvilPort)
	if err != nil {
		return ContainerSpec{}, fmt.Errorf("failed to build container port: %w", err)
	}

	return ContainerSpec{
		Name: cfg.ContainerName,
		Config: &container.Config{
			Image:      cfg.Image,
			Entrypoint: []string{"anvil"},
			Cmd: []string{
				"--host", "0.0.0.0",
				"--port", anvilPort,
				"--chain-id", strconv.FormatUint(cfg.ChainID, 10),
			},
			ExposedPorts: nat.PortSet{port: struct{}{}},
		},
		HostConfig: &container.HostConfig{
			AutoRemove: true,
			PortBindings: nat.PortMap{
				port: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: strconv.Itoa(cfg.Port)}},
			},
		},
	}, nil
}
