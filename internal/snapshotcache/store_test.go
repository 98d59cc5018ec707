package snapshotcache

import (
	"reflect"
	"testing"

	"github.com/cloblabs/clob-go/internal/model"
)

func testSnapshot() model.OrderbookSnapshot {
	return model.OrderbookSnapshot{
		AssetID:      "7777",
		Market:       "0xcond",
		Timestamp:    "1700000000",
		TickSize:     "0.01",
		MinOrderSize: "5",
		NegRisk:      true,
		Bids: []model.PriceLevel{
			{Price: "0.33", Size: "100"},
			{Price: "0.32", Size: "40"},
		},
		Asks: []model.PriceLevel{
			{Price: "0.35", Size: "50"},
		},
		LastTradePrice: "0.34",
	}
}

// TestSnapshotRowRoundTrip: folding a snapshot into its table row and back
// must preserve every field, including both book sides.
func TestSnapshotRowRoundTrip(t *testing.T) {
	original := testSnapshot()

	row, err := rowFromSnapshot(original)
	if err != nil {
		t.Fatalf("rowFromSnapshot() error = %v", err)
	}
	back, err := row.toSnapshot()
	if err != nil {
		t.Fatalf("toSnapshot() error = %v", err)
	}

	if !reflect.DeepEqual(back, original) {
		t.Errorf("round-tripped snapshot = %+v, want %+v", back, original)
	}
}

func TestSnapshotRowEmptyBookSides(t *testing.T) {
	snap := testSnapshot()
	snap.Bids = nil
	snap.Asks = nil

	row, err := rowFromSnapshot(snap)
	if err != nil {
		t.Fatalf("rowFromSnapshot() error = %v", err)
	}
	back, err := row.toSnapshot()
	if err != nil {
		t.Fatalf("toSnapshot() error = %v", err)
	}
	if len(back.Bids) != 0 || len(back.Asks) != 0 {
		t.Errorf("round-tripped empty sides = %+v / %+v, want empty", back.Bids, back.Asks)
	}
}

func TestSnapshotRowRejectsMalformedColumns(t *testing.T) {
	row := snapshotRow{Bids: []byte(`{not json`), Asks: []byte(`[]`)}
	if _, err := row.toSnapshot(); err == nil {
		t.Fatal("expected an error for malformed cached bids")
	}
}
