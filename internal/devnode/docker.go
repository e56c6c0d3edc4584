package devnode

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/brand-provenance/deployer/internal/logger"
	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
)

type (
	// ContainerSpec is what the dev node needs from a container run.
	ContainerSpec struct {
		Name       string
		Config     *container.Config
		HostConfig *container.HostConfig
	}

	// ContainerState reports whether a named container exists and is running.
	ContainerState struct {
		Exists  bool
		Running bool
		ID      string
	}

	dockerClient struct {
		cli    *client.Client
		logger *slog.Logger
	}
)

// newDockerClient creates a Docker Engine API client from the environment.
func newDockerClient() (*dockerClient, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}

	return &dockerClient{cli: cli, logger: logger.Named("docker_client")}, nil
}

func (c *dockerClient) Close() error {
	return c.cli.Close()
}

// ImageExists checks if a Docker image exists locally.
func (c *dockerClient) ImageExists(ctx context.Context, imageName string) (bool, error) {
	_, err := c.cli.ImageInspect(ctx, imageName)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// PullImage pulls a Docker image from a registry.
func (c *dockerClient) PullImage(ctx context.Context, imageName string) error {
	c.logger.With("image", imageName).Info("pulling docker image")

	resp, err := c.cli.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image: %w", err)
	}
	defer resp.Close()

	scanner := bufio.NewScanner(resp)
	var pullError error
	for scanner.Scan() {
		line := scanner.Text()
		c.logger.Debug(line)

		var msg struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal([]byte(line), &msg); err == nil && msg.Error != "" {
			pullError = fmt.Errorf("pull failed: %s", msg.Error)
			c.logger.Error("docker pull error", "error", msg.Error)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading pull output: %w", err)
	}

	if pullError != nil {
		return pullError
	}

	c.logger.With("image", imageName).Info("docker image pulled successfully")
	return nil
}

// Inspect returns the state of the named container.
func (c *dockerClient) Inspect(ctx context.Context, name string) (ContainerState, error) {
	resp, err := c.cli.ContainerInspect(ctx, name)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return ContainerState{}, nil
		}
		return ContainerState{}, fmt.Errorf("failed to inspect container %s: %w", name, err)
	}

	state := ContainerState{Exists: true, ID: resp.ID}
	if resp.State != nil {
		state.Running = resp.State.Running
	}

	return state, nil
}

// RunDetached creates and starts a container without waiting for it to exit.
func (c *dockerClient) RunDetached(ctx context.Context, spec ContainerSpec) (string, error) {
	resp, err := c.cli.ContainerCreate(ctx, spec.Config, spec.HostConfig, nil, nil, spec.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create container: %w", err)
	}

	if err := c.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		_ = c.cli.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return "", fmt.Errorf("failed to start container: %w", err)
	}

	return resp.ID, nil
}

// Remove force-removes the named container.
func (c *dockerClient) Remove(ctx context.Context, name string) error {
	if err := c.cli.ContainerRemove(ctx, name, container.RemoveOptions{Force: true}); err != nil {
		if errdefs.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to remove container %s: %w", name, err)
	}

	return nil
}
