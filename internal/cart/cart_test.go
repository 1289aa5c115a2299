package cart

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCartAddMergesExistingID(t *testing.T) {
	t.Parallel()

	c := &Cart{SessionID: "sess-1"}
	c.add(LineItem{ID: "course-1", Name: "Aromaterapia Clínica", Price: decimal.RequireFromString("180.00")})
	c.add(LineItem{ID: "course-1", Name: "renamed upstream", Price: decimal.RequireFromString("999.99")})

	if len(c.Items) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", c.Items[0].Quantity)
	}
	if c.Items[0].Name != "Aromaterapia Clínica" {
		t.Fatalf("expected original name kept, got %q", c.Items[0].Name)
	}
	if !c.Items[0].Price.Equal(decimal.RequireFromString("180.00")) {
		t.Fatalf("expected original price kept, got %s", c.Items[0].Price)
	}
}

func TestCartAddPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	c := &Cart{SessionID: "sess-1"}
	c.add(LineItem{ID: "a", Name: "A", Price: decimal.NewFromInt(10)})
	c.add(LineItem{ID: "b", Name: "B", Price: decimal.NewFromInt(20)})
	c.add(LineItem{ID: "a", Name: "A", Price: decimal.NewFromInt(10)})
	c.add(LineItem{ID: "c", Name: "C", Price: decimal.NewFromInt(30)})

	got := []string{}
	for _, item := range c.Items {
		got = append(got, item.ID)
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestCartTotalsRecomputed(t *testing.T) {
	t.Parallel()

	c := &Cart{SessionID: "sess-1"}
	c.add(LineItem{ID: "a", Name: "A", Price: decimal.RequireFromString("49.90")})
	c.add(LineItem{ID: "a", Name: "A", Price: decimal.RequireFromString("49.90")})
	c.add(LineItem{ID: "b", Name: "B", Price: decimal.RequireFromString("120.00")})

	if c.TotalItems() != 3 {
		t.Fatalf("expected 3 total items, got %d", c.TotalItems())
	}
	want := decimal.RequireFromString("219.80")
	if !c.Subtotal().Equal(want) {
		t.Fatalf("expected subtotal %s, got %s", want, c.Subtotal())
	}

	c.setQuantity("a", 5)
	want = decimal.RequireFromString("369.50")
	if !c.Subtotal().Equal(want) {
		t.Fatalf("expected subtotal %s after update, got %s", want, c.Subtotal())
	}
}

func TestCartSetQuantityBelowOneRemoves(t *testing.T) {
	t.Parallel()

	for _, quantity := range []int{0, -1, -10} {
		c := &Cart{SessionID: "sess-1"}
		c.add(LineItem{ID: "a", Name: "A", Price: decimal.NewFromInt(10)})

		c.setQuantity("a", quantity)
		if len(c.Items) != 0 {
			t.Fatalf("quantity %d: expected item removed, got %d items", quantity, len(c.Items))
		}
	}
}

func TestCartRemoveAbsentIsNoop(t *testing.T) {
	t.Parallel()

	c := &Cart{SessionID: "sess-1"}
	c.add(LineItem{ID: "a", Name: "A", Price: decimal.NewFromInt(10)})

	c.remove("missing")
	if len(c.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(c.Items))
	}
}

func TestCartClear(t *testing.T) {
	t.Parallel()

	c := &Cart{SessionID: "sess-1"}
	c.add(LineItem{ID: "a", Name: "A", Price: decimal.NewFromInt(10)})
	c.add(LineItem{ID: "b", Name: "B", Price: decimal.NewFromInt(20)})

	c.clear()
	if len(c.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(c.Items))
	}
	if c.TotalItems() != 0 {
		t.Fatalf("expected 0 total items, got %d", c.TotalItems())
	}
	if !c.Subtotal().IsZero() {
		t.Fatalf("expected zero subtotal, got %s", c.Subtotal())
	}
}
