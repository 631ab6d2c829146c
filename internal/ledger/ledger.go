// Package ledger holds the authoritative in-memory transaction
// collection and its derived aggregate queries. Every mutation hands a
// full snapshot to the injected saver; persistence is a best-effort
// mirror and never blocks or rolls back a mutation.
package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kienmai98/Life/internal/core"
	"github.com/kienmai98/Life/internal/log"
	"github.com/kienmai98/Life/internal/persist"
)

// Saver receives full state snapshots after every mutation. It must not
// block; failures are the saver's problem, not the ledger's.
type Saver interface {
	Save(key string, state any)
}

// Ledger is the single-writer state container for transactions.
type Ledger struct {
	mu         sync.RWMutex
	txs        []core.Transaction // most-recent-first
	categories []string
	version    int64
	saver      Saver
}

func New(saver Saver) *Ledger {
	return &Ledger{
		categories: append([]string(nil), core.DefaultCategories...),
		saver:      saver,
	}
}

// Restore replaces the ledger contents with a persisted snapshot.
// Meant for process start, before any mutation.
func (l *Ledger) Restore(state persist.LedgerState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.txs = append([]core.Transaction(nil), state.Transactions...)
	if len(state.Categories) > 0 {
		l.categories = append([]string(nil), state.Categories...)
	}
}

// Add assigns a fresh id and creation timestamp, prepends the
// transaction and queues a snapshot. The date must already be a
// normalized ISO date; everything else is the entry boundary's job.
func (l *Ledger) Add(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Date.Validate(); err != nil {
		return core.Transaction{}, err
	}
	tx.ID = uuid.NewString()
	tx.CreatedAt = time.Now().UTC()

	l.mu.Lock()
	l.txs = append([]core.Transaction{tx}, l.txs...)
	l.version++
	l.mu.Unlock()

	l.snapshot()

	slog.InfoContext(ctx, "Transaction added",
		log.FieldComponent, log.ComponentLedger,
		log.FieldOperation, log.OpAdd,
		log.FieldTxID, tx.ID,
		log.FieldCategory, tx.Category,
		log.FieldAmountCents, tx.Amount.Cents,
		log.FieldDate, tx.Date.String())

	return tx, nil
}

// Update applies a partial patch to the transaction matching id.
// ID and CreatedAt are immutable. A missing id is surfaced as
// core.ErrTransactionNotFound rather than ignored.
func (l *Ledger) Update(ctx context.Context, id string, patch core.TransactionPatch) (core.Transaction, error) {
	if patch.Date != nil {
		if err := patch.Date.Validate(); err != nil {
			return core.Transaction{}, err
		}
	}

	l.mu.Lock()
	idx := l.indexOf(id)
	if idx < 0 {
		l.mu.Unlock()
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	tx := l.txs[idx]
	applyPatch(&tx, patch)
	l.txs[idx] = tx
	l.version++
	l.mu.Unlock()

	l.snapshot()

	slog.InfoContext(ctx, "Transaction updated",
		log.FieldComponent, log.ComponentLedger,
		log.FieldOperation, log.OpUpdate,
		log.FieldTxID, id)

	return tx, nil
}

// Delete removes the transaction matching id, or reports
// core.ErrTransactionNotFound.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	idx := l.indexOf(id)
	if idx < 0 {
		l.mu.Unlock()
		return core.ErrTransactionNotFound
	}
	l.txs = append(l.txs[:idx], l.txs[idx+1:]...)
	l.version++
	l.mu.Unlock()

	l.snapshot()

	slog.InfoContext(ctx, "Transaction deleted",
		log.FieldComponent, log.ComponentLedger,
		log.FieldOperation, log.OpDelete,
		log.FieldTxID, id)

	return nil
}

// Transactions returns the full collection, most-recent-first.
func (l *Ledger) Transactions() []core.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]core.Transaction(nil), l.txs...)
}

// ByDateRange returns every transaction whose date falls in
// [start, end], boundaries included. Order is preserved.
func (l *Ledger) ByDateRange(start, end core.Date) []core.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]core.Transaction, 0)
	for _, tx := range l.txs {
		if tx.Date.InRange(start, end) {
			out = append(out, tx)
		}
	}
	return out
}

// Total sums amounts over the whole ledger. Zero for an empty ledger.
func (l *Ledger) Total() core.Money {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return sumAmounts(l.txs)
}

// TotalBetween sums amounts over [start, end] inclusive.
func (l *Ledger) TotalBetween(start, end core.Date) core.Money {
	return sumAmounts(l.ByDateRange(start, end))
}

// TotalByCategory maps each category to its summed amount. Categories
// with no transactions are absent from the result.
func (l *Ledger) TotalByCategory() map[string]core.Money {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return sumByCategory(l.txs)
}

// TotalByCategoryBetween is TotalByCategory over [start, end] inclusive.
func (l *Ledger) TotalByCategoryBetween(start, end core.Date) map[string]core.Money {
	return sumByCategory(l.ByDateRange(start, end))
}

// Summarize builds the aggregate view the dashboard renders. Empty
// start and end mean the whole ledger.
func (l *Ledger) Summarize(start, end core.Date) core.Summary {
	var txs []core.Transaction
	if start == "" && end == "" {
		txs = l.Transactions()
	} else {
		txs = l.ByDateRange(start, end)
	}
	byCat := sumByCategory(txs)
	s := core.Summary{
		Start:      start,
		End:        end,
		Total:      sumAmounts(txs),
		ByCategory: make([]core.CategoryAmount, 0, len(byCat)),
	}
	// Stable order: follow the known category list, then unknowns as met.
	seen := make(map[string]bool, len(byCat))
	for _, name := range l.Categories() {
		if amount, ok := byCat[name]; ok {
			s.ByCategory = append(s.ByCategory, core.CategoryAmount{Name: name, Amount: amount})
			seen[name] = true
		}
	}
	for _, tx := range txs {
		if amount, ok := byCat[tx.Category]; ok && !seen[tx.Category] {
			s.ByCategory = append(s.ByCategory, core.CategoryAmount{Name: tx.Category, Amount: amount})
			seen[tx.Category] = true
		}
	}
	return s
}

// DayTotals aggregates per calendar day over [start, end] inclusive,
// oldest day first. Days without transactions are absent.
func (l *Ledger) DayTotals(start, end core.Date) []core.DayTotal {
	txs := l.ByDateRange(start, end)
	byDay := make(map[core.Date]*core.DayTotal)
	order := make([]core.Date, 0)
	for _, tx := range txs {
		dt, ok := byDay[tx.Date]
		if !ok {
			dt = &core.DayTotal{Date: tx.Date}
			byDay[tx.Date] = dt
			order = append(order, tx.Date)
		}
		dt.Count++
		dt.Total = dt.Total.Add(tx.Amount)
	}
	// Lexical sort doubles as chronological sort for normalized dates.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && order[j] < order[j-1]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	out := make([]core.DayTotal, 0, len(order))
	for _, d := range order {
		out = append(out, *byDay[d])
	}
	return out
}

// Categories returns the current category list.
func (l *Ledger) Categories() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.categories...)
}

// AddCategory extends the category list. Duplicates are ignored.
func (l *Ledger) AddCategory(ctx context.Context, name string) {
	l.mu.Lock()
	for _, c := range l.categories {
		if c == name {
			l.mu.Unlock()
			return
		}
	}
	l.categories = append(l.categories, name)
	l.version++
	l.mu.Unlock()

	l.snapshot()

	slog.InfoContext(ctx, "Category added",
		log.FieldComponent, log.ComponentLedger,
		log.FieldCategory, name)
}

// Version increases by one on every mutation. Cache keys hang off it.
func (l *Ledger) Version() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

func (l *Ledger) snapshot() {
	if l.saver == nil {
		return
	}
	l.mu.RLock()
	state := persist.LedgerState{
		Transactions: append([]core.Transaction(nil), l.txs...),
		Categories:   append([]string(nil), l.categories...),
	}
	l.mu.RUnlock()
	l.saver.Save(persist.LedgerKey, state)
}

func (l *Ledger) indexOf(id string) int {
	for i, tx := range l.txs {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

func applyPatch(tx *core.Transaction, p core.TransactionPatch) {
	if p.Type != nil {
		tx.Type = *p.Type
	}
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	if p.Category != nil {
		tx.Category = *p.Category
	}
	if p.Description != nil {
		tx.Description = *p.Description
	}
	if p.Date != nil {
		tx.Date = *p.Date
	}
	if p.Currency != nil {
		tx.Currency = *p.Currency
	}
	if p.PaymentMethod != nil {
		tx.PaymentMethod = *p.PaymentMethod
	}
	if p.ReceiptImage != nil {
		tx.ReceiptImage = *p.ReceiptImage
	}
	if p.Tags != nil {
		tx.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Location != nil {
		loc := *p.Location
		tx.Location = &loc
	}
}

func sumAmounts(txs []core.Transaction) core.Money {
	var total core.Money
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}
	return total
}

func sumByCategory(txs []core.Transaction) map[string]core.Money {
	out := make(map[string]core.Money)
	for _, tx := range txs {
		out[tx.Category] = out[tx.Category].Add(tx.Amount)
	}
	return out
}
