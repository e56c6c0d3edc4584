package deployment

import (
	"context"
	"errors"
	"fmt"
)

// NetworkResolver queries the connected endpoint for its network identity.
type NetworkResolver struct {
	client ChainClient
}

func NewNetworkResolver(client ChainClient) *NetworkResolver {
	return &NetworkResolver{client: client}
}

// Resolve performs a single query against the endpoint.
func (r *NetworkResolver) Resolve(ctx context.Context) (NetworkIdentity, error) {
	network, err := r.client.Network(ctx)
	if err != nil {
		if errors.Is(err, ErrConnectivity) {
			return NetworkIdentity{}, err
		}
		return NetworkIdentity{}, errors.Join(ErrConnectivity, fmt.Errorf("failed to resolve network: %w", err))
	}

	return network, nil
}
