package core

// CategoryAmount is an amount aggregated under one category name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// Summary is the derived aggregate view over a (possibly filtered)
// slice of the ledger: grand total plus per-category totals. Categories
// with no matching transactions are absent, not zero-valued.
type Summary struct {
	Start      Date             `json:"start,omitempty"`
	End        Date             `json:"end,omitempty"`
	Total      Money            `json:"total"`
	ByCategory []CategoryAmount `json:"byCategory"`
}

// DayTotal is one calendar day's aggregate, used by the calendar feed.
type DayTotal struct {
	Date  Date  `json:"date"`
	Count int   `json:"count"`
	Total Money `json:"total"`
}
