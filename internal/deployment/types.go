package deployment

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

type (
	// NetworkIdentity names the chain the client is connected to. It is resolved once per run.
	NetworkIdentity struct {
		Name    string
		ChainID uint64
	}

	// Arguments are constructor arguments in declaration order.
	Arguments []any

	// Addresses holds previously deployed contract addresses keyed by template name.
	Addresses map[string]common.Address

	// Handle is a submitted contract creation. It starts pending and becomes
	// confirmed once WaitForDeployment returns without error.
	Handle interface {
		TxHash() common.Hash
		WaitForDeployment(ctx context.Context) error
		Confirmed() bool
		Address() (common.Address, error)
	}

	// Factory creates new instances of one compiled contract template.
	Factory interface {
		Name() string
		// Deploy submits exactly one creation transaction and returns a pending handle.
		Deploy(ctx context.Context, args Arguments) (Handle, error)
	}

	// ChainClient is the chain collaborator the core drives.
	ChainClient interface {
		Network(ctx context.Context) (NetworkIdentity, error)
		ContractFactory(name string) (Factory, error)
	}
)

func (n NetworkIdentity) String() string {
	if n.Name == "" {
		return fmt.Sprintf("chain-%d", n.ChainID)
	}
	return n.Name
}
