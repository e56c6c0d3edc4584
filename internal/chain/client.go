package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/brand-provenance/deployer/internal/artifacts"
	"github.com/brand-provenance/deployer/internal/deployment"
	"github.com/brand-provenance/deployer/internal/logger"
	"github.com/brand-provenance/deployer/internal/wallet"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

const defaultConfirmationTimeout = 2 * time.Minute

type (
	// Backend is the RPC surface needed to deploy contracts and wait for them.
	Backend interface {
		bind.ContractBackend
		bind.DeployBackend
		ChainID(ctx context.Context) (*big.Int, error)
	}

	// TemplateSource resolves compiled templates by name.
	TemplateSource interface {
		Template(name string) (artifacts.Template, bool)
	}

	Options struct {
		// ConfirmationTimeout bounds the wait for a creation receipt.
		ConfirmationTimeout time.Duration
		// GasLimit is used as-is when non-zero, otherwise gas is estimated.
		GasLimit uint64
		Networks *Networks
	}

	// Client adapts a go-ethereum backend to deployment.ChainClient.
	Client struct {
		backend             Backend
		close               func()
		key                 *ecdsa.PrivateKey
		from                common.Address
		templates           TemplateSource
		networks            *Networks
		confirmationTimeout time.Duration
		gasLimit            uint64
		logger              *slog.Logger
	}
)

var _ deployment.ChainClient = (*Client)(nil)

// Dial connects to rpcURL. The connection is lazy for HTTP endpoints, so an
// unreachable node surfaces on the first query.
func Dial(ctx context.Context, rpcURL string, key *ecdsa.PrivateKey, templates TemplateSource, opts Options) (*Client, error) {
	ethClient, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, errors.Join(deployment.ErrConnectivity, fmt.Errorf("failed to connect to %s: %w", rpcURL, err))
	}

	client, err := NewClient(ethClient, key, templates, opts)
	if err != nil {
		ethClient.Close()
		return nil, err
	}
	client.close = ethClient.Close

	return client, nil
}

func NewClient(backend Backend, key *ecdsa.PrivateKey, templates TemplateSource, opts Options) (*Client, error) {
	from, err := wallet.Address(key)
	if err != nil {
		return nil, err
	}

	timeout := opts.ConfirmationTimeout
	if timeout <= 0 {
		timeout = defaultConfirmationTimeout
	}

	return &Client{
		backend:             backend,
		close:               func() {},
		key:                 key,
		from:                from,
		templates:           templates,
		networks:            opts.Networks,
		confirmationTimeout: timeout,
		gasLimit:            opts.GasLimit,
		logger:              logger.Named("chain_client"),
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.close()
}

// From is the deployer account.
func (c *Client) From() common.Address {
	return c.from
}

// Network queries the chain ID once and names it from the network table.
func (c *Client) Network(ctx context.Context) (deployment.NetworkIdentity, error) {
	chainID, err := c.backend.ChainID(ctx)
	if err != nil {
		return deployment.NetworkIdentity{}, errors.Join(deployment.ErrConnectivity, fmt.Errorf("failed to get chain ID: %w", err))
	}
	if chainID == nil || chainID.Sign() <= 0 || !chainID.IsUint64() {
		return deployment.NetworkIdentity{}, errors.Join(deployment.ErrConnectivity, fmt.Errorf("endpoint reported invalid chain ID %v", chainID))
	}

	network := deployment.NetworkIdentity{
		Name:    c.networks.NameFor(chainID.Uint64()),
		ChainID: chainID.Uint64(),
	}
	c.logger.With("chain_id", network.ChainID).With("network", network.Name).Info("chain ID was fetched")

	return network, nil
}

// ContractFactory returns a factory for the named template.
func (c *Client) ContractFactory(name string) (deployment.Factory, error) {
	template, ok := c.templates.Template(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", deployment.ErrTemplateNotFound, name)
	}

	return &factory{client: c, template: template}, nil
}
