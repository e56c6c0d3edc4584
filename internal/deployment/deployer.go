package deployment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/brand-provenance/deployer/internal/logger"
	"github.com/ethereum/go-ethereum/common"
)

// Progress receives the deployer's submission milestones.
type Progress interface {
	Submitting(template string)
	Waiting(template string, txHash common.Hash)
	WaitDone()
}

// ContractDeployer submits a creation transaction and blocks until it is confirmed.
type ContractDeployer struct {
	client   ChainClient
	progress Progress
	logger   *slog.Logger
}

func NewContractDeployer(client ChainClient, progress Progress) *ContractDeployer {
	return &ContractDeployer{
		client:   client,
		progress: progress,
		logger:   logger.Named("contract_deployer"),
	}
}

// Deploy resolves the template, submits one creation transaction with args and waits
// for confirmation. The returned handle is always confirmed. Cancelling ctx only has
// an effect before the transaction is submitted.
func (d *ContractDeployer) Deploy(ctx context.Context, templateName string, args Arguments) (Handle, error) {
	factory, err := d.client.ContractFactory(templateName)
	if err != nil {
		return nil, wrapWith(ErrTemplateNotFound, fmt.Errorf("failed to resolve template %s: %w", templateName, err))
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("deployment cancelled before submission: %w", err)
	}

	d.progress.Submitting(templateName)
	d.logger.
		With("template", templateName).
		With("args", len(args)).
		Debug("submitting contract creation transaction")

	handle, err := factory.Deploy(ctx, args)
	if err != nil {
		return nil, wrapWith(ErrSubmission, fmt.Errorf("failed to submit %s: %w", templateName, err))
	}

	d.logger.
		With("template", templateName).
		With("tx_hash", handle.TxHash().Hex()).
		Info("contract creation transaction sent")

	// The transaction is on its way; from here on the wait runs to the client's own deadline.
	d.progress.Waiting(templateName, handle.TxHash())
	err = handle.WaitForDeployment(context.WithoutCancel(ctx))
	d.progress.WaitDone()
	if err != nil {
		return nil, wrapWith(ErrConfirmation, fmt.Errorf("transaction %s for %s was not confirmed: %w", handle.TxHash().Hex(), templateName, err))
	}

	if !handle.Confirmed() {
		return nil, wrapWith(ErrConfirmation, fmt.Errorf("transaction %s for %s returned without confirmation", handle.TxHash().Hex(), templateName))
	}

	return handle, nil
}

func wrapWith(sentinel, err error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return errors.Join(sentinel, err)
}
