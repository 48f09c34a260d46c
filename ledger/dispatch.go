package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MixinNetwork/mixin/logger"
)

// DispatchCalls executes up to batch pending calls in the order they were
// committed, and returns how many of them reached a final state. It stops at
// the first retryable failure, a later call never runs before an earlier one
// succeeded. A rejected call fails together with the calls of its request
// that did not run yet, and the queue moves on.
func (l *Ledger) DispatchCalls(ctx context.Context, batch int) (int, error) {
	calls, err := l.store.ListCalls(CallStateInitial, batch)
	if err != nil || len(calls) == 0 {
		return 0, err
	}
	rejected := make(map[string]bool)
	for i, call := range calls {
		if rejected[call.RequestId] {
			continue
		}
		err = l.executeCall(ctx, call)
		if errors.Is(err, ErrRejected) {
			logger.Printf("Ledger.DispatchCalls(%s, %s) rejected => %v\n", call.TraceId, call.Kind, err)
			rejected[call.RequestId] = true
			err = l.failRequest(call)
			if err != nil {
				return i, err
			}
			continue
		} else if err != nil {
			logger.Printf("Ledger.DispatchCalls(%s, %s) => %v\n", call.TraceId, call.Kind, err)
			return i, err
		}
		call.State = CallStateDone
		call.UpdatedAt = time.Now()
		err = l.store.WriteCall(call)
		if err != nil {
			return i, err
		}
		logger.Verbosef("Ledger.DispatchCalls(%s, %s, %s) done\n", call.TraceId, call.Kind, call.Recipient)
	}
	return len(calls), nil
}

// RetryCalls queues the failed calls of a request again, keeping their
// original order.
func (l *Ledger) RetryCalls(caller, traceId string) (int, error) {
	if traceId == "" {
		return 0, fmt.Errorf("%w: empty trace", ErrMalformed)
	}
	traceId, err := canonicalTrace(traceId)
	if err != nil {
		return 0, err
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	err = l.checkOwner(caller)
	if err != nil {
		return 0, err
	}
	r, err := l.store.ReadDeposit(traceId)
	if err != nil {
		return 0, err
	} else if r == nil {
		return 0, fmt.Errorf("%w: request %s", ErrNotFound, traceId)
	}
	calls, err := l.readReceiptCalls(r)
	if err != nil {
		return 0, err
	}
	var n int
	for _, call := range calls {
		if call.State != CallStateFailed {
			continue
		}
		call.State = CallStateInitial
		call.UpdatedAt = time.Now()
		err = l.store.WriteCall(call)
		if err != nil {
			return n, err
		}
		n++
	}
	logger.Printf("Ledger.RetryCalls(%s, %s) => %d\n", caller, traceId, n)
	return n, nil
}

// failRequest marks call and every later pending call of its request failed
func (l *Ledger) failRequest(call *Call) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	calls := []*Call{call}
	if call.RequestId != "" {
		r, err := l.store.ReadDeposit(call.RequestId)
		if err != nil {
			return err
		}
		if r != nil {
			calls, err = l.readReceiptCalls(r)
			if err != nil {
				return err
			}
		}
	}
	now := time.Now()
	for _, c := range calls {
		if c.State != CallStateInitial || c.Sequence < call.Sequence {
			continue
		}
		c.State = CallStateFailed
		c.UpdatedAt = now
		err := l.store.WriteCall(c)
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) executeCall(ctx context.Context, call *Call) error {
	switch call.Kind {
	case CallKindTransfer:
		return l.payment.Transfer(ctx, call.Service, call)
	case CallKindMintTokens:
		return l.payment.Mint(ctx, call.Service, call)
	case CallKindMintAsset:
		return l.registry.MintAsset(ctx, call.Service, call)
	}
	return fmt.Errorf("%w: unknown call kind %s", ErrRejected, call.Kind)
}
