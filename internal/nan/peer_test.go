package nan_test

import (
	"testing"

	"github.com/nan-project/nand/internal/nan"
)

func TestPeerTableUpdateAndLookup(t *testing.T) {
	table := nan.NewPeerTable()

	if _, ok := table.Lookup(1); ok {
		t.Fatalf("Lookup on empty table returned ok")
	}

	mac1, err := nan.ParseMAC("02:00:00:00:00:01")
	if err != nil {
		t.Fatalf("ParseMAC: %v", err)
	}
	table.Update(1, mac1)

	got, ok := table.Lookup(1)
	if !ok || got != mac1 {
		t.Fatalf("Lookup(1) = (%v, %v), want (%v, true)", got, ok, mac1)
	}

	mac2, _ := nan.ParseMAC("02:00:00:00:00:02")
	table.Update(1, mac2)
	got, ok = table.Lookup(1)
	if !ok || got != mac2 {
		t.Fatalf("Lookup(1) after re-update = (%v, %v), want (%v, true)", got, ok, mac2)
	}
}

func TestParseMACRoundTrip(t *testing.T) {
	const addr = "aa:bb:cc:dd:ee:ff"
	mac, err := nan.ParseMAC(addr)
	if err != nil {
		t.Fatalf("ParseMAC: %v", err)
	}
	if mac.String() != addr {
		t.Errorf("String() = %q, want %q", mac.String(), addr)
	}
}

func TestParseMACRejectsGarbage(t *testing.T) {
	if _, err := nan.ParseMAC("not-a-mac"); err == nil {
		t.Fatal("ParseMAC accepted garbage input")
	}
}

func TestParseMACRejectsNonEUI48(t *testing.T) {
	// Valid for net.ParseMAC (EUI-64), but not a NAN peer address.
	if _, err := nan.ParseMAC("02:00:5e:10:00:00:00:01"); err == nil {
		t.Fatal("ParseMAC accepted an 8-byte EUI-64 address")
	}
}
