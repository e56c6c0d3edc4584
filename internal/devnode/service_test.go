package devnode

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brand-provenance/deployer/configs"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	state       ContainerState
	imageExists bool
	runErr      error
	calls       []string
	spec        ContainerSpec
}

func (e *fakeEngine) ImageExists(context.Context, string) (bool, error) {
	e.calls = append(e.calls, "image-exists")
	return e.imageExists, nil
}

func (e *fakeEngine) PullImage(context.Context, string) error {
	e.calls = append(e.calls, "pull")
	return nil
}

func (e *fakeEngine) Inspect(context.Context, string) (ContainerState, error) {
	e.calls = append(e.calls, "inspect")
	return e.state, nil
}

func (e *fakeEngine) RunDetached(_ context.Context, spec ContainerSpec) (string, error) {
	e.calls = append(e.calls, "run")
	e.spec = spec
	return "abc123", e.runErr
}

func (e *fakeEngine) Remove(context.Context, string) error {
	e.calls = append(e.calls, "remove")
	return nil
}

func testConfig() configs.DevNode {
	return configs.DevNode{
		Image:         "ghcr.io/foundry-rs/foundry:latest",
		ContainerName: "deployer-anvil",
		Port:          18545,
		ChainID:       31337,
	}
}

func newTestService(engine *fakeEngine, waitErr error) (*Service, *[]string) {
	var waited []string
	svc := newService(testConfig(), engine)
	svc.waitRPC = func(_ context.Context, url string, _ int, _ time.Duration) error {
		waited = append(waited, url)
		return waitErr
	}
	return svc, &waited
}

func TestStartPullsImageAndWaitsForRPC(t *testing.T) {
	engine := &fakeEngine{}
	svc, waited := newTestService(engine, nil)

	url, err := svc.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:18545", url)
	assert.Equal(t, []string{"inspect", "image-exists", "pull", "run"}, engine.calls)
	assert.Equal(t, []string{"http://localhost:18545"}, *waited)

	port := nat.Port("8545/tcp")
	assert.Equal(t, "deployer-anvil", engine.spec.Name)
	assert.Equal(t, []string{"anvil"}, []string(engine.spec.Config.Entrypoint))
	assert.Equal(t, []string{"--host", "0.0.0.0", "--port", "8545", "--chain-id", "31337"}, []string(engine.spec.Config.Cmd))
	assert.Contains(t, engine.spec.Config.ExposedPorts, port)
	assert.Equal(t, []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: "18545"}}, engine.spec.HostConfig.PortBindings[port])
}

func TestStartWhenAlreadyRunning(t *testing.T) {
	engine := &fakeEngine{state: ContainerState{Exists: true, Running: true}}
	svc, waited := newTestService(engine, nil)

	_, err := svc.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"inspect"}, engine.calls)
	assert.Empty(t, *waited)
}

func TestStartReplacesStoppedContainer(t *testing.T) {
	engine := &fakeEngine{state: ContainerState{Exists: true}, imageExists: true}
	svc, _ := newTestService(engine, nil)

	_, err := svc.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"inspect", "remove", "image-exists", "run"}, engine.calls)
}

func TestStartPropagatesRPCTimeout(t *testing.T) {
	engine := &fakeEngine{imageExists: true}
	svc, _ := newTestService(engine, errors.New("timed out waiting for RPC"))

	_, err := svc.Start(context.Background())
	assert.ErrorContains(t, err, "timed out waiting for RPC")
}

func TestStartValidatesConfig(t *testing.T) {
	engine := &fakeEngine{}
	svc := newService(configs.DevNode{}, engine)

	_, err := svc.Start(context.Background())
	assert.ErrorContains(t, err, "devnode.image is required")
	assert.Empty(t, engine.calls)
}

func TestStop(t *testing.T) {
	t.Run("removes existing container", func(t *testing.T) {
		engine := &fakeEngine{state: ContainerState{Exists: true, Running: true}}
		svc, _ := newTestService(engine, nil)

		require.NoError(t, svc.Stop(context.Background()))
		assert.Equal(t, []string{"inspect", "remove"}, engine.calls)
	})

	t.Run("no container", func(t *testing.T) {
		engine := &fakeEngine{}
		svc, _ := newTestService(engine, nil)

		require.NoError(t, svc.Stop(context.Background()))
		assert.Equal(t, []string{"inspect"}, engine.calls)
	})
}
