package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/brand-provenance/deployer/internal/artifacts"
	"github.com/brand-provenance/deployer/internal/deployment"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type factory struct {
	client   *Client
	template artifacts.Template
}

func (f *factory) Name() string {
	return f.template.Name
}

// Deploy packs args against the constructor, signs and sends one creation
// transaction and returns a pending handle.
func (f *factory) Deploy(ctx context.Context, args deployment.Arguments) (deployment.Handle, error) {
	if _, err := f.template.ABI.Pack("", args...); err != nil {
		return nil, fmt.Errorf("constructor arguments do not match %s ABI: %w", f.template.Name, err)
	}

	chainID, err := f.client.backend.ChainID(ctx)
	if err != nil {
		return nil, errors.Join(deployment.ErrConnectivity, fmt.Errorf("failed to get chain ID: %w", err))
	}

	auth, err := bind.NewKeyedTransactorWithChainID(f.client.key, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	auth.Context = ctx
	auth.GasLimit = f.client.gasLimit

	address, tx, _, err := bind.DeployContract(auth, f.template.ABI, f.template.Bytecode, f.client.backend, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy contract: %w", err)
	}

	f.client.logger.
		With("template", f.template.Name).
		With("address", address.Hex()).
		With("tx_hash", tx.Hash().Hex()).
		With("from", f.client.from.Hex()).
		Info("contract deployment transaction sent")

	return &handle{
		client:    f.client,
		tx:        tx,
		predicted: address,
	}, nil
}

type handle struct {
	client    *Client
	tx        *types.Transaction
	predicted common.Address
	address   common.Address
	confirmed bool
}

func (h *handle) TxHash() common.Hash {
	return h.tx.Hash()
}

func (h *handle) Confirmed() bool {
	return h.confirmed
}

// WaitForDeployment blocks until the creation receipt is available, the
// transaction succeeded and code exists at the contract address.
func (h *handle) WaitForDeployment(ctx context.Context) error {
	if h.confirmed {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, h.client.confirmationTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(ctx, h.client.backend, h.tx)
	if err != nil {
		return fmt.Errorf("failed to wait for transaction %s: %w", h.tx.Hash().Hex(), err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("contract deployment failed with status %d in block %v", receipt.Status, receipt.BlockNumber)
	}

	address := receipt.ContractAddress
	if address == (common.Address{}) {
		address = h.predicted
	}

	code, err := h.client.backend.CodeAt(ctx, address, nil)
	if err != nil {
		return fmt.Errorf("failed to read code at %s: %w", address.Hex(), err)
	}
	if len(code) == 0 {
		return fmt.Errorf("no code at %s after deployment", address.Hex())
	}

	h.address = address
	h.confirmed = true

	h.client.logger.
		With("address", address.Hex()).
		With("block", receipt.BlockNumber).
		With("gas_used", receipt.GasUsed).
		Info("contract deployment confirmed")

	return nil
}

func (h *handle) Address() (common.Address, error) {
	if !h.confirmed {
		return common.Address{}, deployment.ErrHandleNotConfirmed
	}
	return h.address, nil
}
