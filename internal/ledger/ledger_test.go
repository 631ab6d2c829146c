package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kienmai98/Life/internal/core"
	"github.com/kienmai98/Life/internal/persist"
)

// recordingSaver captures every snapshot handed to it.
type recordingSaver struct {
	mu    sync.Mutex
	saves []persist.LedgerState
}

func (r *recordingSaver) Save(key string, state any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ls, ok := state.(persist.LedgerState); ok && key == persist.LedgerKey {
		r.saves = append(r.saves, ls)
	}
}

func (r *recordingSaver) last() (persist.LedgerState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saves) == 0 {
		return persist.LedgerState{}, false
	}
	return r.saves[len(r.saves)-1], true
}

func expense(desc string, cents int64, category string, date core.Date) core.Transaction {
	return core.Transaction{
		Type:        core.Expense,
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Description: desc,
		Date:        date,
	}
}

func TestAddAssignsIdentityAndPrepends(t *testing.T) {
	l := New(nil)
	ctx := context.Background()

	a, err := l.Add(ctx, expense("first", 100, "food", "2024-01-10"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	b, err := l.Add(ctx, expense("second", 200, "transport", "2024-01-11"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		t.Fatalf("ids must be unique and non-empty: %q %q", a.ID, b.ID)
	}
	if a.CreatedAt.IsZero() || b.CreatedAt.IsZero() {
		t.Fatal("createdAt must be assigned")
	}

	txs := l.Transactions()
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[0].ID != b.ID || txs[1].ID != a.ID {
		t.Fatal("add must prepend: newest transaction first")
	}
}

func TestAddManyUniqueIDs(t *testing.T) {
	l := New(nil)
	ctx := context.Background()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		tx, err := l.Add(ctx, expense("x", 1, "other", "2024-01-01"))
		if err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
		if seen[tx.ID] {
			t.Fatalf("duplicate id %q", tx.ID)
		}
		seen[tx.ID] = true
	}
	if got := len(l.Transactions()); got != 50 {
		t.Fatalf("expected 50 transactions, got %d", got)
	}
}

func TestAddRejectsUnnormalizedDate(t *testing.T) {
	l := New(nil)
	if _, err := l.Add(context.Background(), expense("x", 1, "food", "2024-1-5")); !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestUpdatePatchesOnlyGivenFields(t *testing.T) {
	l := New(nil)
	ctx := context.Background()
	orig, _ := l.Add(ctx, expense("coffee", 350, "food", "2024-01-10"))

	newDesc := "espresso"
	updated, err := l.Update(ctx, orig.ID, core.TransactionPatch{Description: &newDesc})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != "espresso" {
		t.Fatalf("description not patched: %q", updated.Description)
	}
	if updated.Amount != orig.Amount || updated.Category != orig.Category || updated.Date != orig.Date {
		t.Fatal("unpatched fields must be unchanged")
	}
	if updated.ID != orig.ID || !updated.CreatedAt.Equal(orig.CreatedAt) {
		t.Fatal("id and createdAt are immutable")
	}
}

func TestUpdateMissingIDReportsNotFound(t *testing.T) {
	l := New(nil)
	ctx := context.Background()
	l.Add(ctx, expense("keep", 100, "food", "2024-01-10"))

	desc := "x"
	_, err := l.Update(ctx, "no-such-id", core.TransactionPatch{Description: &desc})
	if !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
	if got := len(l.Transactions()); got != 1 {
		t.Fatalf("collection must be unchanged, got %d entries", got)
	}
	if l.Transactions()[0].Description != "keep" {
		t.Fatal("other records must be unaffected")
	}
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	l := New(nil)
	ctx := context.Background()
	a, _ := l.Add(ctx, expense("a", 100, "food", "2024-01-10"))
	l.Add(ctx, expense("b", 200, "food", "2024-01-11"))

	if err := l.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := len(l.Transactions()); got != 1 {
		t.Fatalf("expected 1 transaction, got %d", got)
	}
	if err := l.Delete(ctx, a.ID); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("second delete should report not found, got %v", err)
	}
	if got := len(l.Transactions()); got != 1 {
		t.Fatalf("not-found delete must not shrink the collection, got %d", got)
	}
}

func TestByDateRangeInclusiveBoundaries(t *testing.T) {
	l := New(nil)
	ctx := context.Background()
	l.Add(ctx, expense("before", 1, "food", "2023-12-31"))
	l.Add(ctx, expense("start", 2, "food", "2024-01-01"))
	l.Add(ctx, expense("mid", 3, "food", "2024-01-15"))
	l.Add(ctx, expense("end", 4, "food", "2024-01-31"))
	l.Add(ctx, expense("after", 5, "food", "2024-02-01"))

	got := l.ByDateRange("2024-01-01", "2024-01-31")
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got))
	}
	for _, tx := range got {
		if tx.Description == "before" || tx.Description == "after" {
			t.Fatalf("out-of-range transaction %q returned", tx.Description)
		}
	}

	if got := l.ByDateRange("2025-01-01", "2025-12-31"); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestTotalsAndByCategory(t *testing.T) {
	l := New(nil)
	ctx := context.Background()

	if l.Total().Cents != 0 {
		t.Fatal("empty ledger total must be zero")
	}

	l.Add(ctx, expense("lunch", 2550, "food", "2024-01-15"))
	l.Add(ctx, expense("bus", 1200, "transport", "2024-01-20"))

	if got := l.TotalBetween("2024-01-01", "2024-01-31").Cents; got != 3750 {
		t.Fatalf("expected 3750 cents, got %d", got)
	}

	byCat := l.TotalByCategoryBetween("2024-01-01", "2024-01-31")
	if len(byCat) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(byCat))
	}
	if byCat["food"].Cents != 2550 || byCat["transport"].Cents != 1200 {
		t.Fatalf("unexpected category sums %+v", byCat)
	}
	if _, ok := byCat["shopping"]; ok {
		t.Fatal("categories with no transactions must be absent")
	}
}

func TestSummarizeOrdersKnownCategoriesFirst(t *testing.T) {
	l := New(nil)
	ctx := context.Background()
	l.Add(ctx, expense("bus", 1200, "transport", "2024-01-20"))
	l.Add(ctx, expense("lunch", 2550, "food", "2024-01-15"))
	l.Add(ctx, expense("odd", 100, "crypto", "2024-01-10"))

	s := l.Summarize("", "")
	if s.Total.Cents != 3850 {
		t.Fatalf("expected total 3850, got %d", s.Total.Cents)
	}
	if len(s.ByCategory) != 3 {
		t.Fatalf("expected 3 category rows, got %d", len(s.ByCategory))
	}
	// food precedes transport in the default list; unknown trails.
	if s.ByCategory[0].Name != "food" || s.ByCategory[1].Name != "transport" || s.ByCategory[2].Name != "crypto" {
		t.Fatalf("unexpected order %+v", s.ByCategory)
	}
}

func TestDayTotals(t *testing.T) {
	l := New(nil)
	ctx := context.Background()
	l.Add(ctx, expense("a", 100, "food", "2024-01-02"))
	l.Add(ctx, expense("b", 200, "food", "2024-01-01"))
	l.Add(ctx, expense("c", 300, "food", "2024-01-02"))

	days := l.DayTotals("2024-01-01", "2024-01-31")
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Date != "2024-01-01" || days[0].Count != 1 || days[0].Total.Cents != 200 {
		t.Fatalf("unexpected first day %+v", days[0])
	}
	if days[1].Date != "2024-01-02" || days[1].Count != 2 || days[1].Total.Cents != 400 {
		t.Fatalf("unexpected second day %+v", days[1])
	}
}

func TestMutationsSnapshotToSaver(t *testing.T) {
	saver := &recordingSaver{}
	l := New(saver)
	ctx := context.Background()

	tx, _ := l.Add(ctx, expense("lunch", 2550, "food", "2024-01-15"))
	state, ok := saver.last()
	if !ok || len(state.Transactions) != 1 {
		t.Fatalf("add must snapshot full state, got %+v", state)
	}
	if len(state.Categories) != len(core.DefaultCategories) {
		t.Fatalf("snapshot must carry categories, got %d", len(state.Categories))
	}

	l.Delete(ctx, tx.ID)
	state, _ = saver.last()
	if len(state.Transactions) != 0 {
		t.Fatal("delete must snapshot the shrunk state")
	}

	if len(saver.saves) != 2 {
		t.Fatalf("expected one snapshot per mutation, got %d", len(saver.saves))
	}
}

func TestRestoreAndVersion(t *testing.T) {
	l := New(nil)
	l.Restore(persist.LedgerState{
		Transactions: []core.Transaction{{ID: "t1", Description: "x", Amount: core.Money{Cents: 1}, Date: "2024-01-01"}},
		Categories:   []string{"food", "travel"},
	})
	if got := len(l.Transactions()); got != 1 {
		t.Fatalf("expected restored transaction, got %d", got)
	}
	cats := l.Categories()
	if len(cats) != 2 || cats[1] != "travel" {
		t.Fatalf("unexpected categories %v", cats)
	}

	v := l.Version()
	l.AddCategory(context.Background(), "gifts")
	if l.Version() != v+1 {
		t.Fatal("mutations must bump the version")
	}
	l.AddCategory(context.Background(), "gifts") // duplicate: no-op
	if l.Version() != v+1 {
		t.Fatal("duplicate category must not bump the version")
	}
}
