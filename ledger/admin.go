package ledger

import (
	"fmt"
	"sync"

	"github.com/MixinNetwork/mixin/logger"
	"lukechampine.com/uint128"
)

type Ledger struct {
	mutex    sync.Mutex
	store    Store
	payment  PaymentService
	registry CollectibleRegistry
}

func NewLedger(store Store, payment PaymentService, registry CollectibleRegistry) *Ledger {
	return &Ledger{
		store:    store,
		payment:  payment,
		registry: registry,
	}
}

// Initialize creates the global state owned by owner. It is a no-op when the
// state exists with the same owner, the owner can never be replaced.
func (l *Ledger) Initialize(owner string) error {
	owner, err := CanonicalAddress(owner)
	if err != nil {
		return err
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()

	old, err := l.store.ReadState()
	if err != nil {
		return err
	}
	if old != nil {
		if old.Owner != owner {
			return fmt.Errorf("%w: ledger owned by %s", ErrUnauthorized, old.Owner)
		}
		return nil
	}
	logger.Printf("Ledger.Initialize(%s)\n", owner)
	return l.store.WriteState(&State{TotalIssued: uint128.Zero, Owner: owner})
}

func (l *Ledger) SetPaymentService(caller, address string) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	err := l.checkOwner(caller)
	if err != nil {
		return err
	}
	address, err = CanonicalAddress(address)
	if err != nil {
		return err
	}
	logger.Printf("Ledger.SetPaymentService(%s, %s)\n", caller, address)
	return l.store.WritePaymentService(address)
}

func (l *Ledger) SetRegistryService(caller, address string) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	err := l.checkOwner(caller)
	if err != nil {
		return err
	}
	address, err = CanonicalAddress(address)
	if err != nil {
		return err
	}
	logger.Printf("Ledger.SetRegistryService(%s, %s)\n", caller, address)
	return l.store.WriteRegistryService(address)
}

func (l *Ledger) SetQuota(caller string, amount uint128.Uint128) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	err := l.checkOwner(caller)
	if err != nil {
		return err
	}
	logger.Printf("Ledger.SetQuota(%s, %s)\n", caller, amount)
	return l.store.WriteQuota(amount)
}

// checkOwner must be called with the ledger locked
func (l *Ledger) checkOwner(caller string) error {
	state, err := l.readState()
	if err != nil {
		return err
	}
	id, err := CanonicalAddress(caller)
	if err != nil || id != state.Owner {
		return fmt.Errorf("%w: %s is not the owner", ErrUnauthorized, caller)
	}
	return nil
}

func (l *Ledger) readState() (*State, error) {
	state, err := l.store.ReadState()
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, fmt.Errorf("%w: ledger not initialized", ErrConfigurationMissing)
	}
	return state, nil
}
