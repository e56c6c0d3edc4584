package configs

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var Values Config

type (
	NetworkName string

	Config struct {
		Chain    Chain    `mapstructure:"chain"`
		Deploy   Deploy   `mapstructure:"deploy"`
		Explorer Explorer `mapstructure:"explorer"`
		DevNode  DevNode  `mapstructure:"devnode"`
	}

	Chain struct {
		RPCURL              string        `mapstructure:"rpc-url"`
		PrivateKey          string        `mapstructure:"private-key"`
		ConfirmationTimeout time.Duration `mapstructure:"confirmation-timeout"`
		GasLimit            uint64        `mapstructure:"gas-limit"`
		Networks            []Network     `mapstructure:"networks"`
	}

	// Network maps a chain ID reported by the endpoint to an operator-facing name.
	// It is a list rather than a map because viper lowercases map keys.
	Network struct {
		Name    NetworkName `mapstructure:"name"`
		ChainID uint64      `mapstructure:"chain-id"`
	}

	Deploy struct {
		Artifacts           string `mapstructure:"artifacts"`
		VerificationAddress string `mapstructure:"verification-address"`
		ContractsDir        string `mapstructure:"contracts-dir"`
	}

	Explorer struct {
		Network NetworkName `mapstructure:"network"`
		BaseURL string      `mapstructure:"base-url"`
		Label   string      `mapstructure:"label"`
	}

	DevNode struct {
		Image         string `mapstructure:"image"`
		ContainerName string `mapstructure:"container-name"`
		Port          int    `mapstructure:"port"`
		ChainID       uint64 `mapstructure:"chain-id"`
	}
)

const (
	NetworkNameLocalNet     NetworkName = "localNet"
	NetworkNameMonadTestnet NetworkName = "monadTestnet"
)

// Validate checks the settings every deployment run needs.
func (c *Config) Validate() error {
	var errs []error

	if c.Chain.RPCURL == "" {
		errs = append(errs, errors.New("chain.rpc-url is required"))
	} else if _, err := url.Parse(c.Chain.RPCURL); err != nil {
		errs = append(errs, fmt.Errorf("chain.rpc-url is not a valid URL: %w", err))
	}
	if c.Chain.PrivateKey == "" {
		errs = append(errs, errors.New("chain.private-key is required"))
	}
	if c.Chain.ConfirmationTimeout <= 0 {
		errs = append(errs, errors.New("chain.confirmation-timeout must be positive"))
	}
	seen := make(map[uint64]NetworkName)
	for i, network := range c.Chain.Networks {
		if network.Name == "" {
			errs = append(errs, fmt.Errorf("chain.networks[%d].name is required", i))
		}
		if network.ChainID == 0 {
			errs = append(errs, fmt.Errorf("chain.networks[%d].chain-id is required", i))
			continue
		}
		if other, ok := seen[network.ChainID]; ok {
			errs = append(errs, fmt.Errorf("chain.networks: chain-id %d is used by both %s and %s", network.ChainID, other, network.Name))
		}
		seen[network.ChainID] = network.Name
	}

	if c.Deploy.Artifacts == "" {
		errs = append(errs, errors.New("deploy.artifacts is required"))
	}

	if c.Explorer.Network != "" {
		if c.Explorer.BaseURL == "" {
			errs = append(errs, errors.New("explorer.base-url is required when explorer.network is set"))
		} else if u, err := url.Parse(c.Explorer.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("explorer.base-url '%s' must be an absolute URL", c.Explorer.BaseURL))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}

// ValidateVerificationAddress checks the dependency address used by series deployments.
func (c *Deploy) ValidateVerificationAddress() error {
	if c.VerificationAddress == "" {
		return errors.New("deploy.verification-address is required for series deployments")
	}
	if !common.IsHexAddress(c.VerificationAddress) {
		return fmt.Errorf("deploy.verification-address '%s' is not a valid hex address", c.VerificationAddress)
	}

	return nil
}

// Validate checks the dev node settings.
func (c *DevNode) Validate() error {
	var errs []error

	if c.Image == "" {
		errs = append(errs, errors.New("devnode.image is required"))
	}
	if c.ContainerName == "" {
		errs = append(errs, errors.New("devnode.container-name is required"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("devnode.port %d is out of range", c.Port))
	}
	if c.ChainID == 0 {
		errs = append(errs, errors.New("devnode.chain-id is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("devnode configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}
