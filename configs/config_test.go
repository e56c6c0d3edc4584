package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const anvilKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func validConfig(t *testing.T) Config {
	t.Helper()
	cfg, err := DefaultConfig()
	require.NoError(t, err)
	cfg.Chain.PrivateKey = anvilKey
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8545", cfg.Chain.RPCURL)
	assert.Equal(t, 2*time.Minute, cfg.Chain.ConfirmationTimeout)
	assert.Equal(t, []Network{
		{Name: NetworkNameLocalNet, ChainID: 31337},
		{Name: NetworkNameMonadTestnet, ChainID: 10143},
	}, cfg.Chain.Networks)
	assert.Equal(t, NetworkNameMonadTestnet, cfg.Explorer.Network)
	assert.Equal(t, "https://testnet.monadexplorer.com", cfg.Explorer.BaseURL)
	assert.NoError(t, cfg.DevNode.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing private key",
			mutate:  func(c *Config) { c.Chain.PrivateKey = "" },
			wantErr: []string{"chain.private-key is required"},
		},
		{
			name: "all problems are reported together",
			mutate: func(c *Config) {
				c.Chain.RPCURL = ""
				c.Chain.ConfirmationTimeout = 0
				c.Deploy.Artifacts = ""
			},
			wantErr: []string{
				"chain.rpc-url is required",
				"chain.confirmation-timeout must be positive",
				"deploy.artifacts is required",
			},
		},
		{
			name: "duplicate chain id",
			mutate: func(c *Config) {
				c.Chain.Networks = append(c.Chain.Networks, Network{Name: "anvil", ChainID: 31337})
			},
			wantErr: []string{"chain-id 31337 is used by both localNet and anvil"},
		},
		{
			name:    "relative explorer url",
			mutate:  func(c *Config) { c.Explorer.BaseURL = "testnet.monadexplorer.com" },
			wantErr: []string{"must be an absolute URL"},
		},
		{
			name: "explorer disabled",
			mutate: func(c *Config) {
				c.Explorer.Network = ""
				c.Explorer.BaseURL = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestValidateVerificationAddress(t *testing.T) {
	deploy := Deploy{VerificationAddress: "0x5FbDB2315678afecb367f032d93F642f64180aa3"}
	assert.NoError(t, deploy.ValidateVerificationAddress())

	deploy.VerificationAddress = ""
	assert.ErrorContains(t, deploy.ValidateVerificationAddress(), "is required")

	deploy.VerificationAddress = "brand"
	assert.ErrorContains(t, deploy.ValidateVerificationAddress(), "not a valid hex address")
}

func TestDevNodeValidate(t *testing.T) {
	err := (&DevNode{Port: 70000}).Validate()
	require.Error(t, err)
	for _, want := range []string{"devnode.image is required", "devnode.container-name is required", "devnode.port 70000 is out of range", "devnode.chain-id is required"} {
		assert.Contains(t, err.Error(), want)
	}
}
