package store

import (
	"context"
	"testing"
	"time"

	"github.com/MixinNetwork/issuance/ledger"
	"lukechampine.com/uint128"
)

const (
	testOwner       = "e9e5b807-fa8b-455a-8dfa-b189d28310ff"
	testParticipant = "0x34E1AeB8AED83B87F1873dF24A0454d4bcFd7B04"
)

func openTestStore(t *testing.T) *BadgerStore {
	bs, err := OpenBadger(context.Background(), "")
	if err != nil {
		t.Fatalf("OpenBadger() => %v", err)
	}
	t.Cleanup(func() { bs.Close() })
	return bs
}

func TestStateCreateOnce(t *testing.T) {
	bs := openTestStore(t)

	s, err := bs.ReadState()
	if err != nil || s != nil {
		t.Fatalf("ReadState() => %v %v", s, err)
	}
	err = bs.WriteState(&ledger.State{Owner: testOwner})
	if err != nil {
		t.Fatalf("WriteState() => %v", err)
	}
	err = bs.WriteState(&ledger.State{Owner: testParticipant})
	if err == nil {
		t.Fatalf("WriteState() replaced the state")
	}
	s, err = bs.ReadState()
	if err != nil || s.Owner != testOwner || !s.TotalIssued.IsZero() {
		t.Fatalf("ReadState() => %v %v", s, err)
	}
}

func TestConfigProperties(t *testing.T) {
	bs := openTestStore(t)

	addr, err := bs.ReadPaymentService()
	if err != nil || addr != "" {
		t.Fatalf("ReadPaymentService() => %s %v", addr, err)
	}
	_, found, err := bs.ReadQuota()
	if err != nil || found {
		t.Fatalf("ReadQuota() => %t %v", found, err)
	}

	err = bs.WritePaymentService(testParticipant)
	if err != nil {
		t.Fatalf("WritePaymentService() => %v", err)
	}
	err = bs.WriteRegistryService(testOwner)
	if err != nil {
		t.Fatalf("WriteRegistryService() => %v", err)
	}
	quota := uint128.New(5, 1)
	err = bs.WriteQuota(quota)
	if err != nil {
		t.Fatalf("WriteQuota() => %v", err)
	}

	addr, _ = bs.ReadPaymentService()
	if addr != testParticipant {
		t.Fatalf("ReadPaymentService() => %s", addr)
	}
	addr, _ = bs.ReadRegistryService()
	if addr != testOwner {
		t.Fatalf("ReadRegistryService() => %s", addr)
	}
	q, found, err := bs.ReadQuota()
	if err != nil || !found || !q.Equals(quota) {
		t.Fatalf("ReadQuota() => %s %t %v", q, found, err)
	}
}

func TestWriteMint(t *testing.T) {
	bs := openTestStore(t)
	bs.WriteState(&ledger.State{Owner: testOwner})

	trace := "f0a3e6c1-b6ad-4b3c-9d05-0e4a57d8ff21"
	now := time.Now()
	name := "first"
	calls := []*ledger.Call{{
		TraceId:   "2b1b4e54-0e36-3b17-9f2e-5d0ea6e6f1a0",
		Kind:      ledger.CallKindTransfer,
		Recipient: testOwner,
		Amount:    uint128.From64(100),
		State:     ledger.CallStateInitial,
		CreatedAt: now,
	}, {
		TraceId:   "a4c2d7d1-3c9b-3d53-8d45-0f0b3bf3f2f7",
		Kind:      ledger.CallKindMintAsset,
		Recipient: testParticipant,
		AssetId:   "Hope.0",
		Extension: &ledger.Extension{Name: &name},
		State:     ledger.CallStateInitial,
		CreatedAt: now,
	}}
	err := bs.WriteMint(&ledger.Mint{
		TraceId:     trace,
		State:       &ledger.State{Owner: testOwner, TotalIssued: uint128.From64(1)},
		Participant: &ledger.ParticipantRecord{Address: testParticipant, Assets: []string{"Hope.0"}},
		Count:       uint128.From64(1),
		Calls:       calls,
	})
	if err != nil {
		t.Fatalf("WriteMint() => %v", err)
	}

	s, _ := bs.ReadState()
	if s.TotalIssued.Cmp64(1) != 0 {
		t.Fatalf("TotalIssued => %s", s.TotalIssued)
	}
	p, err := bs.ReadParticipant(testParticipant)
	if err != nil || len(p.Assets) != 1 || p.Assets[0] != "Hope.0" {
		t.Fatalf("ReadParticipant() => %v %v", p, err)
	}
	count, found, err := bs.ReadParticipantCount(testParticipant)
	if err != nil || !found || count.Cmp64(1) != 0 {
		t.Fatalf("ReadParticipantCount() => %s %t %v", count, found, err)
	}
	addresses, _ := bs.ListParticipants()
	if len(addresses) != 1 || addresses[0] != testParticipant {
		t.Fatalf("ListParticipants() => %v", addresses)
	}

	r, err := bs.ReadDeposit(trace)
	if err != nil || r == nil || len(r.Calls) != 2 {
		t.Fatalf("ReadDeposit() => %v %v", r, err)
	}
	if r.Calls[0] != calls[0].TraceId || r.Calls[1] != calls[1].TraceId {
		t.Fatalf("ReadDeposit() => %v", r.Calls)
	}
	c, err := bs.ReadCall(calls[1].TraceId)
	if err != nil || c.AssetId != "Hope.0" || *c.Extension.Name != "first" || c.Extension.Description != nil {
		t.Fatalf("ReadCall() => %v %v", c, err)
	}
}

func TestWriteMintRejectsSkippedIndex(t *testing.T) {
	bs := openTestStore(t)
	bs.WriteState(&ledger.State{Owner: testOwner})

	defer func() {
		if recover() == nil {
			t.Fatalf("WriteMint() accepted a skipped index")
		}
		s, _ := bs.ReadState()
		if !s.TotalIssued.IsZero() {
			t.Fatalf("TotalIssued => %s", s.TotalIssued)
		}
	}()
	bs.WriteMint(&ledger.Mint{
		TraceId:     "f0a3e6c1-b6ad-4b3c-9d05-0e4a57d8ff21",
		State:       &ledger.State{Owner: testOwner, TotalIssued: uint128.From64(2)},
		Participant: &ledger.ParticipantRecord{Address: testParticipant, Assets: []string{"Hope.1"}},
		Count:       uint128.From64(1),
	})
}

func TestListCallsOrder(t *testing.T) {
	bs := openTestStore(t)

	ids := []string{
		"fb9ab0c5-0d98-4f4a-a1fd-3a2b0f0e6f10",
		"0a1b6f7e-6c52-4d8e-a6a2-62b5f43c8f11",
		"7c0b8e2d-3fb4-4a7f-8f6d-2d59fe0a5e12",
	}
	var calls []*ledger.Call
	for _, id := range ids {
		calls = append(calls, &ledger.Call{
			TraceId: id,
			Kind:    ledger.CallKindMintTokens,
			State:   ledger.CallStateInitial,
		})
	}
	err := bs.WriteCalls("d0e8f5a2-57b4-4c85-9f43-b1e0e4a4aa00", calls[:2])
	if err != nil {
		t.Fatalf("WriteCalls() => %v", err)
	}
	err = bs.WriteCalls("e1f9a6b3-68c5-4d96-8054-c2f1f5b5bb01", calls[2:])
	if err != nil {
		t.Fatalf("WriteCalls() => %v", err)
	}

	pending, err := bs.ListCalls(ledger.CallStateInitial, 0)
	if err != nil || len(pending) != 3 {
		t.Fatalf("ListCalls() => %d %v", len(pending), err)
	}
	for i, c := range pending {
		if c.TraceId != ids[i] || c.Sequence != uint64(i+1) {
			t.Fatalf("ListCalls()[%d] => %s %d", i, c.TraceId, c.Sequence)
		}
	}
	pending, _ = bs.ListCalls(ledger.CallStateInitial, 2)
	if len(pending) != 2 {
		t.Fatalf("ListCalls(2) => %d", len(pending))
	}

	first := pending[0]
	first.State = ledger.CallStateDone
	err = bs.WriteCall(first)
	if err != nil {
		t.Fatalf("WriteCall() => %v", err)
	}
	pending, _ = bs.ListCalls(ledger.CallStateInitial, 0)
	if len(pending) != 2 || pending[0].TraceId != ids[1] {
		t.Fatalf("ListCalls() => %v", pending)
	}
	done, _ := bs.ListCalls(ledger.CallStateDone, 0)
	if len(done) != 1 || done[0].TraceId != ids[0] {
		t.Fatalf("ListCalls(done) => %v", done)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("WriteCall() reverted a done call")
		}
	}()
	first.State = ledger.CallStateInitial
	bs.WriteCall(first)
}

func TestCallFailedTransitions(t *testing.T) {
	bs := openTestStore(t)

	call := &ledger.Call{
		TraceId:   "fb9ab0c5-0d98-4f4a-a1fd-3a2b0f0e6f10",
		RequestId: "d0e8f5a2-57b4-4c85-9f43-b1e0e4a4aa00",
		Kind:      ledger.CallKindMintAsset,
		State:     ledger.CallStateInitial,
	}
	err := bs.WriteCalls(call.RequestId, []*ledger.Call{call})
	if err != nil {
		t.Fatalf("WriteCalls() => %v", err)
	}
	call.State = ledger.CallStateFailed
	err = bs.WriteCall(call)
	if err != nil {
		t.Fatalf("WriteCall(failed) => %v", err)
	}
	failed, _ := bs.ListCalls(ledger.CallStateFailed, 0)
	pending, _ := bs.ListCalls(ledger.CallStateInitial, 0)
	if len(failed) != 1 || len(pending) != 0 || failed[0].RequestId != call.RequestId {
		t.Fatalf("ListCalls() => %d %d", len(failed), len(pending))
	}
	call.State = ledger.CallStateInitial
	err = bs.WriteCall(call)
	if err != nil {
		t.Fatalf("WriteCall(initial) => %v", err)
	}
	call.State = ledger.CallStateDone
	err = bs.WriteCall(call)
	if err != nil {
		t.Fatalf("WriteCall(done) => %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("WriteCall() failed a done call")
		}
	}()
	call.State = ledger.CallStateFailed
	bs.WriteCall(call)
}

func TestUint128Bytes(t *testing.T) {
	for _, u := range []uint128.Uint128{uint128.Zero, uint128.From64(2000), uint128.Max} {
		b := uint128ToBytes(u)
		if len(b) != 16 || !bytesToUint128(b).Equals(u) || b[15] != byte(u.Lo) {
			t.Fatalf("uint128 bytes %s => %x", u, b)
		}
	}
}
