package pix_test

import (
	"testing"

	"github.com/boddenberg/pix-consulta-go/internal/domain"
	"github.com/boddenberg/pix-consulta-go/internal/pix"
)

func TestOrder_NewestFirst(t *testing.T) {
	records := []domain.CanonicalRecord{
		{Timestamp: "2024-01-05T10:00", PayerName: "a"},
		{Timestamp: "2024-01-20T08:00", PayerName: "b"},
		{Timestamp: "2024-01-10T12:30", PayerName: "c"},
	}

	ordered := pix.Order(records)

	want := []string{"b", "c", "a"}
	for i, name := range want {
		if ordered[i].PayerName != name {
			t.Errorf("position %d: expected '%s', got '%s'", i, name, ordered[i].PayerName)
		}
	}
}

func TestOrder_StableOnEqualTimestamps(t *testing.T) {
	// Two records share a timestamp at input indices 2 and 5; they must
	// keep that relative order in the output.
	records := []domain.CanonicalRecord{
		{Timestamp: "2024-03-01T00:00", PayerName: "p0"},
		{Timestamp: "2024-03-09T00:00", PayerName: "p1"},
		{Timestamp: "2024-03-05T00:00", PayerName: "tie-first"},
		{Timestamp: "2024-03-02T00:00", PayerName: "p3"},
		{Timestamp: "2024-03-08T00:00", PayerName: "p4"},
		{Timestamp: "2024-03-05T00:00", PayerName: "tie-second"},
	}

	ordered := pix.Order(records)

	var first, second int = -1, -1
	for i, r := range ordered {
		switch r.PayerName {
		case "tie-first":
			first = i
		case "tie-second":
			second = i
		}
	}
	if first == -1 || second == -1 {
		t.Fatal("tied records missing from output")
	}
	if first >= second {
		t.Errorf("stability violated: tie-first at %d, tie-second at %d", first, second)
	}
	if second != first+1 {
		t.Errorf("tied records not adjacent: %d and %d", first, second)
	}
}

func TestOrder_NonIncreasing(t *testing.T) {
	records := []domain.CanonicalRecord{
		{Timestamp: "2024-06-03T10:00"},
		{Timestamp: "2024-06-01T10:00"},
		{Timestamp: "2024-06-07T10:00"},
		{Timestamp: "2024-06-05T10:00"},
		{Timestamp: "2024-06-05T10:00"},
	}

	ordered := pix.Order(records)
	for i := 1; i < len(ordered); i++ {
		prev := pix.ParseTimestamp(ordered[i-1].Timestamp)
		cur := pix.ParseTimestamp(ordered[i].Timestamp)
		if cur.After(prev) {
			t.Errorf("ordering violated at %d: %s before %s", i, ordered[i-1].Timestamp, ordered[i].Timestamp)
		}
	}
}

func TestOrder_UnparseableSinksToEnd(t *testing.T) {
	records := []domain.CanonicalRecord{
		{Timestamp: "not-a-date", PayerName: "bad"},
		{Timestamp: "2024-01-05T10:00", PayerName: "ok"},
	}

	ordered := pix.Order(records)
	if ordered[len(ordered)-1].PayerName != "bad" {
		t.Errorf("expected unparseable timestamp at the end, got order %v", ordered)
	}
}

func TestOrder_DoesNotModifyInput(t *testing.T) {
	records := []domain.CanonicalRecord{
		{Timestamp: "2024-01-01T00:00"},
		{Timestamp: "2024-01-02T00:00"},
	}

	pix.Order(records)
	if records[0].Timestamp != "2024-01-01T00:00" {
		t.Error("input slice was reordered")
	}
}

func TestParseTimestamp_Layouts(t *testing.T) {
	for _, s := range []string{
		"2024-01-05T10:00:00Z",
		"2024-01-05T10:00:00",
		"2024-01-05T10:00",
		"2024-01-05",
	} {
		if pix.ParseTimestamp(s).IsZero() {
			t.Errorf("expected '%s' to parse", s)
		}
	}
	if !pix.ParseTimestamp("05/01/2024").IsZero() {
		t.Error("expected unknown layout to return zero time")
	}
}
