package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// GeoPoint is an opaque coordinate pair captured at entry time.
	// The ledger stores whatever the device hands it, no validation.
	GeoPoint struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}

	// Transaction is one financial event. ID and CreatedAt are assigned
	// by the ledger on Add and never change afterwards.
	Transaction struct {
		ID            string          `json:"id"`
		UserID        string          `json:"userId,omitempty"`
		Type          TransactionType `json:"type,omitempty"`
		Amount        Money           `json:"amount"`
		Category      string          `json:"category"`
		Description   string          `json:"description"`
		Date          Date            `json:"date"`
		CreatedAt     time.Time       `json:"createdAt"`
		Currency      string          `json:"currency,omitempty"`
		PaymentMethod string          `json:"paymentMethod,omitempty"`
		ReceiptImage  string          `json:"receiptImage,omitempty"`
		Tags          []string        `json:"tags,omitempty"`
		Location      *GeoPoint       `json:"location,omitempty"`
	}

	// TransactionPatch is a partial update. Nil fields are left untouched.
	// ID and CreatedAt are deliberately absent.
	TransactionPatch struct {
		Type          *TransactionType `json:"type,omitempty"`
		Amount        *Money           `json:"amount,omitempty"`
		Category      *string          `json:"category,omitempty"`
		Description   *string          `json:"description,omitempty"`
		Date          *Date            `json:"date,omitempty"`
		Currency      *string          `json:"currency,omitempty"`
		PaymentMethod *string          `json:"paymentMethod,omitempty"`
		ReceiptImage  *string          `json:"receiptImage,omitempty"`
		Tags          *[]string        `json:"tags,omitempty"`
		Location      *GeoPoint        `json:"location,omitempty"`
	}

	// User is the authenticated identity. Absence (nil) means logged out.
	User struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName,omitempty"`
		PhotoURL    string `json:"photoURL,omitempty"`
	}
)

// DefaultCategories is the starting category set. Open to extension,
// never enforced at write time.
var DefaultCategories = []string{
	"food",
	"transport",
	"shopping",
	"entertainment",
	"utilities",
	"health",
	"education",
	"other",
}

// PaymentMethods lists the methods the entry form offers.
var PaymentMethods = []string{
	"cash",
	"credit_card",
	"debit_card",
	"bank_transfer",
	"mobile_payment",
	"other",
}

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyDescription    = errors.New("empty description")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrTransactionNotFound = errors.New("transaction not found")
)

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense, "":
		return nil
	default:
		return ErrInvalidType
	}
}

// Validate checks the fields the entry boundary is responsible for.
// Category is intentionally not checked against the known set.
func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return t.Type.Validate()
}
