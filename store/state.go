package store

import (
	"fmt"

	"github.com/MixinNetwork/issuance/ledger"
	"github.com/MixinNetwork/mixin/common"
	"github.com/dgraph-io/badger/v4"
	"lukechampine.com/uint128"
)

const (
	keyConfigState     = "config/state"
	keyPaymentAddress  = "config/payment_address"
	keyRegistryAddress = "config/registry_address"
	keyQuota           = "config/quota"
)

func (bs *BadgerStore) ReadState() (*ledger.State, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readState(txn)
}

// WriteState creates the global state, an existing state is never replaced.
func (bs *BadgerStore) WriteState(s *ledger.State) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		old, err := bs.readState(txn)
		if err != nil {
			return err
		}
		if old != nil {
			return fmt.Errorf("state already initialized by %s", old.Owner)
		}
		return txn.Set([]byte(keyConfigState), common.MsgpackMarshalPanic(s))
	})
}

func (bs *BadgerStore) ReadPaymentService() (string, error) {
	val, err := bs.ReadProperty([]byte(keyPaymentAddress))
	return string(val), err
}

func (bs *BadgerStore) WritePaymentService(address string) error {
	return bs.WriteProperty([]byte(keyPaymentAddress), []byte(address))
}

func (bs *BadgerStore) ReadRegistryService() (string, error) {
	val, err := bs.ReadProperty([]byte(keyRegistryAddress))
	return string(val), err
}

func (bs *BadgerStore) WriteRegistryService(address string) error {
	return bs.WriteProperty([]byte(keyRegistryAddress), []byte(address))
}

func (bs *BadgerStore) ReadQuota() (uint128.Uint128, bool, error) {
	val, err := bs.ReadProperty([]byte(keyQuota))
	if err != nil || val == nil {
		return uint128.Zero, false, err
	}
	return bytesToUint128(val), true, nil
}

func (bs *BadgerStore) WriteQuota(amount uint128.Uint128) error {
	return bs.WriteProperty([]byte(keyQuota), uint128ToBytes(amount))
}

func (bs *BadgerStore) readState(txn *badger.Txn) (*ledger.State, error) {
	val, err := readProperty(txn, []byte(keyConfigState))
	if err != nil || val == nil {
		return nil, err
	}
	var s ledger.State
	err = common.MsgpackUnmarshal(val, &s)
	return &s, err
}

func (bs *BadgerStore) writeState(txn *badger.Txn, s *ledger.State) error {
	return txn.Set([]byte(keyConfigState), common.MsgpackMarshalPanic(s))
}
