package chain

import (
	"fmt"

	"github.com/brand-provenance/deployer/configs"
	"github.com/samber/lo"
)

// Networks names chain IDs for reporting. Unknown chain IDs are named chain-<id>.
type Networks struct {
	names map[uint64]string
}

func NewNetworks(networks []configs.Network) *Networks {
	return &Networks{
		names: lo.SliceToMap(networks, func(n configs.Network) (uint64, string) {
			return n.ChainID, string(n.Name)
		}),
	}
}

// NameFor returns the configured name for chainID.
func (n *Networks) NameFor(chainID uint64) string {
	if n != nil {
		if name, ok := n.names[chainID]; ok {
			return name
		}
	}
	return fmt.Sprintf("chain-%d", chainID)
}
