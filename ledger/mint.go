package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/MixinNetwork/mixin/logger"
	"lukechampine.com/uint128"
)

// HandleDeposit issues one asset to the deposit beneficiary. All checks run
// before any write, and the resulting ledger mutation is stored together with
// the two outbound calls, a payment transfer to the owner followed by the
// asset mint, so that either everything or nothing is committed.
func (l *Ledger) HandleDeposit(ctx context.Context, d *Deposit) ([]*Call, error) {
	d, err := normalizeDeposit(d)
	if err != nil {
		return nil, err
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	old, err := l.store.ReadDeposit(d.TraceId)
	if err != nil {
		return nil, err
	} else if old != nil {
		return l.replayDeposit(d, old)
	}

	state, err := l.readState()
	if err != nil {
		return nil, err
	}
	if state.TotalIssued.Cmp(uint128.From64(Ceiling)) >= 0 {
		return nil, ErrMintEnded
	}

	quota, found, err := l.store.ReadQuota()
	if err != nil {
		return nil, err
	} else if !found {
		return nil, fmt.Errorf("%w: participant quota", ErrConfigurationMissing)
	}
	count, found, err := l.store.ReadParticipantCount(d.Beneficiary)
	if err != nil {
		return nil, err
	}
	if found && count.Cmp(quota) >= 0 {
		return nil, fmt.Errorf("%w: %s owns %s of %s", ErrMintExceeded, d.Beneficiary, count, quota)
	}

	payment, err := l.readPaymentService()
	if err != nil {
		return nil, err
	}
	registry, err := l.readRegistryService()
	if err != nil {
		return nil, err
	}
	if d.Depositor != payment {
		return nil, fmt.Errorf("%w: deposit from %s", ErrUnauthorized, d.Depositor)
	}

	assetId := AssetPrefix + "." + state.TotalIssued.String()
	next := &State{
		TotalIssued: state.TotalIssued.Add64(1),
		Owner:       state.Owner,
	}
	record, err := l.store.ReadParticipant(d.Beneficiary)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = &ParticipantRecord{Address: d.Beneficiary}
	}
	record.Assets = append(record.Assets, assetId)

	now := time.Now()
	calls := []*Call{
		newTransferCall(d.TraceId, payment, state.Owner, d.Amount, now),
		newMintAssetCall(d.TraceId, registry, assetId, d.Beneficiary, d.Metadata, now),
	}
	err = l.store.WriteMint(&Mint{
		TraceId:     d.TraceId,
		State:       next,
		Participant: record,
		Count:       count.Add64(1),
		Calls:       calls,
	})
	if err != nil {
		return nil, err
	}
	logger.Verbosef("Ledger.HandleDeposit(%s, %s, %s) => %s %s\n", d.TraceId, d.Beneficiary, d.Amount, assetId, next.TotalIssued)
	return calls, nil
}

// MintTokens asks the payment service to issue amount tokens to beneficiary.
// It bypasses the collectible ledger entirely.
func (l *Ledger) MintTokens(ctx context.Context, traceId, caller, beneficiary string, amount uint128.Uint128) (*Call, error) {
	traceId, err := canonicalTrace(traceId)
	if err != nil {
		return nil, err
	}
	beneficiary, err = CanonicalAddress(beneficiary)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, fmt.Errorf("%w: zero amount", ErrMalformed)
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	err = l.checkOwner(caller)
	if err != nil {
		return nil, err
	}
	old, err := l.store.ReadDeposit(traceId)
	if err != nil {
		return nil, err
	} else if old != nil {
		calls, err := l.readReceiptCalls(old)
		if err != nil {
			return nil, err
		}
		if len(calls) != 1 || calls[0].Kind != CallKindMintTokens {
			return nil, fmt.Errorf("%w: trace %s already used", ErrMalformed, traceId)
		}
		if calls[0].Recipient != beneficiary || !calls[0].Amount.Equals(amount) {
			return nil, fmt.Errorf("%w: trace %s replayed with another mint", ErrMalformed, traceId)
		}
		return calls[0], nil
	}

	payment, err := l.readPaymentService()
	if err != nil {
		return nil, err
	}
	call := newMintTokensCall(traceId, payment, beneficiary, amount, time.Now())
	err = l.store.WriteCalls(traceId, []*Call{call})
	if err != nil {
		return nil, err
	}
	logger.Verbosef("Ledger.MintTokens(%s, %s, %s)\n", traceId, beneficiary, amount)
	return call, nil
}

func normalizeDeposit(d *Deposit) (*Deposit, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: empty deposit", ErrMalformed)
	}
	traceId, err := canonicalTrace(d.TraceId)
	if err != nil {
		return nil, err
	}
	depositor, err := CanonicalAddress(d.Depositor)
	if err != nil {
		return nil, err
	}
	beneficiary, err := CanonicalAddress(d.Beneficiary)
	if err != nil {
		return nil, err
	}
	if d.Amount.IsZero() {
		return nil, fmt.Errorf("%w: zero deposit", ErrMalformed)
	}
	if d.Metadata != nil {
		err = validateRoyalties(d.Metadata.Royalties)
		if err != nil {
			return nil, err
		}
	}
	return &Deposit{
		TraceId:     traceId,
		Depositor:   depositor,
		Beneficiary: beneficiary,
		Amount:      d.Amount,
		Metadata:    d.Metadata,
	}, nil
}

// replayDeposit returns the calls recorded for the trace only when they were
// produced by the same deposit.
func (l *Ledger) replayDeposit(d *Deposit, r *Receipt) ([]*Call, error) {
	calls, err := l.readReceiptCalls(r)
	if err != nil {
		return nil, err
	}
	if len(calls) != 2 || calls[0].Kind != CallKindTransfer || calls[1].Kind != CallKindMintAsset {
		return nil, fmt.Errorf("%w: trace %s already used", ErrMalformed, d.TraceId)
	}
	if !calls[0].Amount.Equals(d.Amount) || calls[1].Recipient != d.Beneficiary {
		return nil, fmt.Errorf("%w: trace %s replayed with another deposit", ErrMalformed, d.TraceId)
	}
	return calls, nil
}

func (l *Ledger) readReceiptCalls(r *Receipt) ([]*Call, error) {
	calls := make([]*Call, len(r.Calls))
	for i, id := range r.Calls {
		call, err := l.store.ReadCall(id)
		if err != nil {
			return nil, err
		}
		if call == nil {
			panic(id)
		}
		calls[i] = call
	}
	return calls, nil
}

func (l *Ledger) readPaymentService() (string, error) {
	addr, err := l.store.ReadPaymentService()
	if err != nil {
		return "", err
	} else if addr == "" {
		return "", fmt.Errorf("%w: payment service address", ErrConfigurationMissing)
	}
	return addr, nil
}

func (l *Ledger) readRegistryService() (string, error) {
	addr, err := l.store.ReadRegistryService()
	if err != nil {
		return "", err
	} else if addr == "" {
		return "", fmt.Errorf("%w: registry service address", ErrConfigurationMissing)
	}
	return addr, nil
}
