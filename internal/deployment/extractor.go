package deployment

import "github.com/ethereum/go-ethereum/common"

// AddressOf reads the on-chain address of a confirmed handle. Pending handles are
// rejected with ErrHandleNotConfirmed and their Address method is never called.
func AddressOf(handle Handle) (common.Address, error) {
	if handle == nil || !handle.Confirmed() {
		return common.Address{}, ErrHandleNotConfirmed
	}

	return handle.Address()
}
