package ledger

import (
	"context"
	"fmt"

	"lukechampine.com/uint128"
)

func (l *Ledger) State() (*State, error) {
	return l.readState()
}

func (l *Ledger) PaymentService() (string, error) {
	return l.readPaymentService()
}

func (l *Ledger) RegistryService() (string, error) {
	return l.readRegistryService()
}

func (l *Ledger) Quota() (uint128.Uint128, error) {
	quota, found, err := l.store.ReadQuota()
	if err != nil {
		return uint128.Zero, err
	} else if !found {
		return uint128.Zero, fmt.Errorf("%w: participant quota", ErrConfigurationMissing)
	}
	return quota, nil
}

// Participants lists the addresses of every participant in ascending order.
func (l *Ledger) Participants() ([]string, error) {
	return l.store.ListParticipants()
}

func (l *Ledger) Participant(address string) (*ParticipantRecord, error) {
	address, err := CanonicalAddress(address)
	if err != nil {
		return nil, err
	}
	p, err := l.store.ReadParticipant(address)
	if err != nil {
		return nil, err
	} else if p == nil {
		return nil, fmt.Errorf("%w: participant %s", ErrNotFound, address)
	}
	return p, nil
}

// QuotaUsage reports how many assets address owns, zero when it never
// minted, along with the global number of issued assets.
func (l *Ledger) QuotaUsage(address string) (*QuotaUsage, error) {
	address, err := CanonicalAddress(address)
	if err != nil {
		return nil, err
	}
	state, err := l.readState()
	if err != nil {
		return nil, err
	}
	count, _, err := l.store.ReadParticipantCount(address)
	if err != nil {
		return nil, err
	}
	return &QuotaUsage{Owned: count, TotalIssued: state.TotalIssued}, nil
}

func (l *Ledger) Balance(ctx context.Context, address string) (uint128.Uint128, error) {
	address, err := CanonicalAddress(address)
	if err != nil {
		return uint128.Zero, err
	}
	service, err := l.readPaymentService()
	if err != nil {
		return uint128.Zero, err
	}
	return l.payment.Balance(ctx, service, address)
}

func (l *Ledger) CollectionInfo(ctx context.Context) (*CollectionInfo, error) {
	service, err := l.readRegistryService()
	if err != nil {
		return nil, err
	}
	return l.registry.CollectionInfo(ctx, service)
}

func (l *Ledger) AssetsOf(ctx context.Context, owner string) ([]string, error) {
	owner, err := CanonicalAddress(owner)
	if err != nil {
		return nil, err
	}
	service, err := l.readRegistryService()
	if err != nil {
		return nil, err
	}
	return l.registry.AssetsOf(ctx, service, owner)
}

func (l *Ledger) Call(traceId string) (*Call, error) {
	call, err := l.store.ReadCall(traceId)
	if err != nil {
		return nil, err
	} else if call == nil {
		return nil, fmt.Errorf("%w: call %s", ErrNotFound, traceId)
	}
	return call, nil
}

func (l *Ledger) PendingCalls(limit int) ([]*Call, error) {
	return l.store.ListCalls(CallStateInitial, limit)
}

func (l *Ledger) FailedCalls(limit int) ([]*Call, error) {
	return l.store.ListCalls(CallStateFailed, limit)
}
