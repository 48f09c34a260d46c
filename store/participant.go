package store

import (
	"github.com/MixinNetwork/issuance/ledger"
	"github.com/MixinNetwork/mixin/common"
	"github.com/dgraph-io/badger/v4"
	"lukechampine.com/uint128"
)

const (
	prefixParticipantPayload = "participant/"
	prefixParticipantCount   = "count/"
)

func (bs *BadgerStore) WriteMint(m *ledger.Mint) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		old, err := bs.readState(txn)
		if err != nil {
			return err
		}
		if old == nil || old.Owner != m.State.Owner {
			panic(m.State.Owner)
		}
		if !old.TotalIssued.Add64(1).Equals(m.State.TotalIssued) {
			panic(m.State.TotalIssued.String())
		}
		p := m.Participant
		if !uint128.From64(uint64(len(p.Assets))).Equals(m.Count) {
			panic(p.Address)
		}
		err = bs.writeState(txn, m.State)
		if err != nil {
			return err
		}

		key := []byte(prefixParticipantPayload + p.Address)
		err = txn.Set(key, common.MsgpackMarshalPanic(p))
		if err != nil {
			return err
		}
		key = []byte(prefixParticipantCount + p.Address)
		err = txn.Set(key, uint128ToBytes(m.Count))
		if err != nil {
			return err
		}
		return bs.writeCalls(txn, m.TraceId, m.Calls)
	})
}

func (bs *BadgerStore) ReadParticipant(address string) (*ledger.ParticipantRecord, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readParticipant(txn, address)
}

func (bs *BadgerStore) ReadParticipantCount(address string) (uint128.Uint128, bool, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	val, err := readProperty(txn, []byte(prefixParticipantCount+address))
	if err != nil || val == nil {
		return uint128.Zero, false, err
	}
	return bytesToUint128(val), true, nil
}

func (bs *BadgerStore) ListParticipants() ([]string, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefixParticipantPayload)
	it := txn.NewIterator(opts)
	defer it.Close()

	addresses := []string{}
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		key := it.Item().Key()
		addresses = append(addresses, string(key[len(opts.Prefix):]))
	}
	return addresses, nil
}

func (bs *BadgerStore) readParticipant(txn *badger.Txn, address string) (*ledger.ParticipantRecord, error) {
	val, err := readProperty(txn, []byte(prefixParticipantPayload+address))
	if err != nil || val == nil {
		return nil, err
	}
	var p ledger.ParticipantRecord
	err = common.MsgpackUnmarshal(val, &p)
	return &p, err
}
