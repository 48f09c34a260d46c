package store

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/MixinNetwork/issuance/ledger"
	"github.com/MixinNetwork/mixin/common"
	"github.com/dgraph-io/badger/v4"
)

const (
	prefixCallPayload     = "call/payload/"
	prefixCallState       = "call/state/"
	prefixDepositReceipt  = "deposit/"
	propertyCallsSequence = "call/sequence"
)

func (bs *BadgerStore) WriteCalls(traceId string, calls []*ledger.Call) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		return bs.writeCalls(txn, traceId, calls)
	})
}

func (bs *BadgerStore) ReadDeposit(traceId string) (*ledger.Receipt, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readDeposit(txn, traceId)
}

func (bs *BadgerStore) ReadCall(traceId string) (*ledger.Call, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readCall(txn, traceId)
}

// ListCalls returns calls in the given state ordered by their sequence.
func (bs *BadgerStore) ListCalls(state int, limit int) ([]*ledger.Call, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(callStatePrefix(state))
	it := txn.NewIterator(opts)
	defer it.Close()

	var calls []*ledger.Call
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		key := it.Item().Key()
		id := string(key[len(opts.Prefix)+8:])
		call, err := bs.readCall(txn, id)
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
		if len(calls) == limit {
			break
		}
	}
	return calls, nil
}

func (bs *BadgerStore) WriteCall(call *ledger.Call) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		old, err := bs.readCall(txn, call.TraceId)
		if err != nil {
			return err
		}
		if old == nil || old.Sequence != call.Sequence {
			panic(call.TraceId)
		}
		if !validCallTransition(old.State, call.State) {
			panic(fmt.Sprintf("%s %d => %d", call.TraceId, old.State, call.State))
		}
		if old.State != call.State {
			err = txn.Delete(buildCallTimedKey(old))
			if err != nil {
				return err
			}
		}
		return bs.writeCall(txn, call)
	})
}

func (bs *BadgerStore) writeCalls(txn *badger.Txn, traceId string, calls []*ledger.Call) error {
	old, err := bs.readDeposit(txn, traceId)
	if err != nil {
		return err
	} else if old != nil {
		panic(traceId)
	}

	val, err := readProperty(txn, []byte(propertyCallsSequence))
	if err != nil {
		return err
	}
	var sequence uint64
	if len(val) == 8 {
		sequence = binary.BigEndian.Uint64(val)
	}

	receipt := &ledger.Receipt{
		TraceId:   traceId,
		CreatedAt: time.Now(),
	}
	for _, call := range calls {
		old, err := bs.readCall(txn, call.TraceId)
		if err != nil {
			return err
		} else if old != nil || call.State != ledger.CallStateInitial {
			panic(call.TraceId)
		}
		sequence = sequence + 1
		call.Sequence = sequence
		err = bs.writeCall(txn, call)
		if err != nil {
			return err
		}
		receipt.Calls = append(receipt.Calls, call.TraceId)
	}

	err = txn.Set([]byte(propertyCallsSequence), uint64ToBytes(sequence))
	if err != nil {
		return err
	}
	key := []byte(prefixDepositReceipt + traceId)
	return txn.Set(key, common.MsgpackMarshalPanic(receipt))
}

func (bs *BadgerStore) writeCall(txn *badger.Txn, call *ledger.Call) error {
	key := []byte(prefixCallPayload + call.TraceId)
	err := txn.Set(key, common.MsgpackMarshalPanic(call))
	if err != nil {
		return err
	}
	return txn.Set(buildCallTimedKey(call), []byte{1})
}

func (bs *BadgerStore) readCall(txn *badger.Txn, traceId string) (*ledger.Call, error) {
	val, err := readProperty(txn, []byte(prefixCallPayload+traceId))
	if err != nil || val == nil {
		return nil, err
	}
	var call ledger.Call
	err = common.MsgpackUnmarshal(val, &call)
	return &call, err
}

func (bs *BadgerStore) readDeposit(txn *badger.Txn, traceId string) (*ledger.Receipt, error) {
	val, err := readProperty(txn, []byte(prefixDepositReceipt+traceId))
	if err != nil || val == nil {
		return nil, err
	}
	var r ledger.Receipt
	err = common.MsgpackUnmarshal(val, &r)
	return &r, err
}

func buildCallTimedKey(call *ledger.Call) []byte {
	prefix := callStatePrefix(call.State)
	key := append([]byte(prefix), uint64ToBytes(call.Sequence)...)
	return append(key, []byte(call.TraceId)...)
}

func callStatePrefix(state int) string {
	prefix := prefixCallState
	switch state {
	case ledger.CallStateInitial:
		return prefix + "initial"
	case ledger.CallStateDone:
		return prefix + "doneeee"
	case ledger.CallStateFailed:
		return prefix + "failure"
	}
	panic(state)
}

// a done call is final, a failed call may only be queued again
func validCallTransition(from, to int) bool {
	switch {
	case from == to:
		return from != ledger.CallStateDone
	case from == ledger.CallStateInitial:
		return to == ledger.CallStateDone || to == ledger.CallStateFailed
	case from == ledger.CallStateFailed:
		return to == ledger.CallStateInitial
	}
	return false
}
