package deployment

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

type fakeHandle struct {
	txHash    common.Hash
	address   common.Address
	waitErr   error
	confirmed bool
	// skipConfirm leaves the handle pending even when the wait succeeds.
	skipConfirm   bool
	addressCalled int
	log           *[]string
}

func (h *fakeHandle) TxHash() common.Hash { return h.txHash }

func (h *fakeHandle) WaitForDeployment(context.Context) error {
	*h.log = append(*h.log, "wait")
	if h.waitErr != nil {
		return h.waitErr
	}
	if !h.skipConfirm {
		h.confirmed = true
	}
	return nil
}

func (h *fakeHandle) Confirmed() bool { return h.confirmed }

func (h *fakeHandle) Address() (common.Address, error) {
	h.addressCalled++
	*h.log = append(*h.log, "address")
	if !h.confirmed {
		return common.Address{}, errors.New("address read on pending handle")
	}
	return h.address, nil
}

type fakeFactory struct {
	name      string
	handle    *fakeHandle
	deployErr error
	received  []Arguments
	log       *[]string
}

func (f *fakeFactory) Name() string { return f.name }

func (f *fakeFactory) Deploy(_ context.Context, args Arguments) (Handle, error) {
	*f.log = append(*f.log, "deploy:"+f.name)
	f.received = append(f.received, args)
	if f.deployErr != nil {
		return nil, f.deployErr
	}
	return f.handle, nil
}

type fakeClient struct {
	network    NetworkIdentity
	networkErr error
	factories  map[string]*fakeFactory
	log        []string
}

func newFakeClient(network string) *fakeClient {
	return &fakeClient{
		network:   NetworkIdentity{Name: network, ChainID: 1},
		factories: make(map[string]*fakeFactory),
	}
}

func (c *fakeClient) addTemplate(name string, address common.Address) *fakeFactory {
	f := &fakeFactory{
		name: name,
		handle: &fakeHandle{
			txHash:  common.BytesToHash(address.Bytes()),
			address: address,
			log:     &c.log,
		},
		log: &c.log,
	}
	c.factories[name] = f
	return f
}

func (c *fakeClient) Network(context.Context) (NetworkIdentity, error) {
	c.log = append(c.log, "network")
	if c.networkErr != nil {
		return NetworkIdentity{}, c.networkErr
	}
	return c.network, nil
}

func (c *fakeClient) ContractFactory(name string) (Factory, error) {
	c.log = append(c.log, "factory:"+name)
	f, ok := c.factories[name]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return f, nil
}

type countingIndicator struct {
	started, stopped int
}

func (i *countingIndicator) Start() { i.started++ }
func (i *countingIndicator) Stop()  { i.stopped++ }
