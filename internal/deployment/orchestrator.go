package deployment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/brand-provenance/deployer/internal/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
)

// State is a step of a single deployment run.
type State int

const (
	StateIdle State = iota
	StateNetworkResolved
	StateSubmitted
	StateConfirmed
	StateReported
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNetworkResolved:
		return "network_resolved"
	case StateSubmitted:
		return "submitted"
	case StateConfirmed:
		return "confirmed"
	case StateReported:
		return "reported"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result is the outcome of a run. On failure State is StateFailed and FailedAt
// names the last state the run reached.
type Result struct {
	Plan        string
	Template    string
	Network     NetworkIdentity
	Args        Arguments
	TxHash      common.Hash
	Address     common.Address
	ExplorerURL string
	State       State
	FailedAt    State
}

// Orchestrator sequences network resolution, submission, confirmation, address
// extraction and reporting for one contract at a time.
type Orchestrator struct {
	resolver *NetworkResolver
	deployer *ContractDeployer
	reporter *Reporter
	logger   *slog.Logger
}

func NewOrchestrator(client ChainClient, reporter *Reporter) *Orchestrator {
	return &Orchestrator{
		resolver: NewNetworkResolver(client),
		deployer: NewContractDeployer(client, reporter),
		reporter: reporter,
		logger:   logger.Named("deployment_orchestrator"),
	}
}

// Run executes plan. prior supplies addresses of earlier deployments that the plan's
// constructor arguments may depend on. Any error leaves the result in StateFailed.
func (o *Orchestrator) Run(ctx context.Context, plan Plan, prior Addresses) (Result, error) {
	result := Result{Plan: plan.Name, Template: plan.TemplateName, State: StateIdle}
	log := o.logger.With("plan", plan.Name).With("template", plan.TemplateName)

	fail := func(step string, err error) (Result, error) {
		result.FailedAt = result.State
		result.State = StateFailed
		log.
			With("step", step).
			With("failed_at", result.FailedAt.String()).
			With("err", err.Error()).
			Error("deployment failed")
		return result, fmt.Errorf("%s: %w", step, err)
	}
	advance := func(next State) {
		log.With("from", result.State.String()).With("to", next.String()).Debug("deployment state transition")
		result.State = next
	}

	network, err := o.resolver.Resolve(ctx)
	if err != nil {
		return fail("resolve network", err)
	}
	result.Network = network
	advance(StateNetworkResolved)
	o.reporter.Deploying(plan.TemplateName, network)

	args, err := plan.BuildArgs(prior)
	if err != nil {
		return fail("build constructor arguments", errors.Join(ErrSubmission, err))
	}
	result.Args = args

	handle, err := o.deployer.Deploy(ctx, plan.TemplateName, args)
	if err != nil {
		if errors.Is(err, ErrConfirmation) {
			advance(StateSubmitted)
		}
		return fail("deploy", err)
	}
	result.TxHash = handle.TxHash()
	advance(StateSubmitted)
	advance(StateConfirmed)

	address, err := AddressOf(handle)
	if err != nil {
		return fail("extract address", err)
	}
	result.Address = address

	result.ExplorerURL = o.reporter.Report(plan.TemplateName, network, address)
	advance(StateReported)

	log.
		With("network", network.String()).
		With("address", address.Hex()).
		With("tx_hash", result.TxHash.Hex()).
		Info("contract deployed")

	return result, nil
}

// RunAll executes plans in order, feeding each deployed address into prior for the
// plans that follow. It stops at the first failure.
func (o *Orchestrator) RunAll(ctx context.Context, plans []Plan, prior Addresses) ([]Result, error) {
	known := lo.Assign(Addresses{}, prior)

	results := make([]Result, 0, len(plans))
	for _, plan := range plans {
		result, err := o.Run(ctx, plan, known)
		results = append(results, result)
		if err != nil {
			return results, err
		}
		known[plan.TemplateName] = result.Address
	}

	return results, nil
}
