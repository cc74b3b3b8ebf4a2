package nan_test

import (
	"testing"

	"github.com/nan-project/nand/internal/nan"
)

func TestTransactionRegistryAllocateIsStrictlyIncreasing(t *testing.T) {
	reg := nan.NewTransactionRegistry()

	var last uint16
	for i := 0; i < 5; i++ {
		id := reg.Allocate(nan.PendingTransaction{ClientID: uint32(i)})
		if i > 0 && id <= last {
			t.Fatalf("Allocate returned %d after %d, want strictly increasing", id, last)
		}
		last = id
	}
	if reg.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", reg.Len())
	}
}

func TestTransactionRegistryAllocateSkipsPendingOnWrapAround(t *testing.T) {
	reg := nan.NewTransactionRegistry()

	first := reg.Allocate(nan.PendingTransaction{ClientID: 1, Kind: 1})

	// Burn through the rest of the 16-bit id space, releasing each id
	// immediately so only the first transaction stays pending when the
	// counter wraps back around to it.
	for i := 0; i < 65535; i++ {
		id := reg.Allocate(nan.PendingTransaction{ClientID: 2, Kind: 1})
		if id == first {
			t.Fatalf("Allocate returned %d, colliding with a pending transaction mid-burn", id)
		}
		if _, ok := reg.Take(id); !ok {
			t.Fatalf("Take(%d) missing mid-burn", id)
		}
	}

	wrapped := reg.Allocate(nan.PendingTransaction{ClientID: 3, Kind: 1})
	if wrapped == first {
		t.Fatalf("Allocate returned %d after wrap-around, colliding with a still-pending transaction", wrapped)
	}

	record, ok := reg.Take(first)
	if !ok || record.ClientID != 1 {
		t.Fatalf("Take(%d) = (%+v, %v), want the original pending record intact", first, record, ok)
	}
	if record, ok := reg.Take(wrapped); !ok || record.ClientID != 3 {
		t.Fatalf("Take(%d) = (%+v, %v), want the post-wrap record", wrapped, record, ok)
	}
}

func TestTransactionRegistryTakeRemovesEntry(t *testing.T) {
	reg := nan.NewTransactionRegistry()

	id := reg.Allocate(nan.PendingTransaction{ClientID: 7})
	record, ok := reg.Take(id)
	if !ok {
		t.Fatalf("Take(%d) missing", id)
	}
	if record.ClientID != 7 {
		t.Errorf("ClientID = %d, want 7", record.ClientID)
	}

	if _, ok := reg.Take(id); ok {
		t.Fatalf("Take(%d) succeeded twice", id)
	}
	if reg.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", reg.Len())
	}
}

func TestTransactionRegistrySweepClientOnlySweepsItsOwn(t *testing.T) {
	reg := nan.NewTransactionRegistry()

	idA1 := reg.Allocate(nan.PendingTransaction{ClientID: 1, Kind: 1})
	idA2 := reg.Allocate(nan.PendingTransaction{ClientID: 1, Kind: 1})
	idB := reg.Allocate(nan.PendingTransaction{ClientID: 2, Kind: 1})

	swept := reg.SweepClient(1)
	if len(swept) != 2 {
		t.Fatalf("SweepClient(1) returned %d entries, want 2", len(swept))
	}
	if _, ok := swept[idA1]; !ok {
		t.Errorf("swept map missing %d", idA1)
	}
	if _, ok := swept[idA2]; !ok {
		t.Errorf("swept map missing %d", idA2)
	}

	if _, ok := reg.Take(idB); !ok {
		t.Fatalf("client 2's transaction %d was swept by SweepClient(1)", idB)
	}
	if reg.Len() != 0 {
		t.Fatalf("Len() = %d after sweeping the only remaining entry, want 0", reg.Len())
	}
}
