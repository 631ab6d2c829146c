package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/kienmai98/Life/internal/core"
)

type createTransactionRequest struct {
	Type          string         `json:"type,omitempty"`
	Amount        string         `json:"amount"`
	Category      string         `json:"category"`
	Description   string         `json:"description"`
	Date          string         `json:"date,omitempty"`
	Currency      string         `json:"currency,omitempty"`
	PaymentMethod string         `json:"paymentMethod,omitempty"`
	ReceiptImage  string         `json:"receiptImage,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	Location      *core.GeoPoint `json:"location,omitempty"`
}

type patchTransactionRequest struct {
	Type          *string        `json:"type,omitempty"`
	Amount        *string        `json:"amount,omitempty"`
	Category      *string        `json:"category,omitempty"`
	Description   *string        `json:"description,omitempty"`
	Date          *string        `json:"date,omitempty"`
	Currency      *string        `json:"currency,omitempty"`
	PaymentMethod *string        `json:"paymentMethod,omitempty"`
	ReceiptImage  *string        `json:"receiptImage,omitempty"`
	Tags          *[]string      `json:"tags,omitempty"`
	Location      *core.GeoPoint `json:"location,omitempty"`
}

// parseRange reads the optional start/end query pair. Both present or
// both absent; anything else is a caller mistake.
func parseRange(r *http.Request) (start, end core.Date, ranged bool, err error) {
	qs := strings.TrimSpace(r.URL.Query().Get("start"))
	qe := strings.TrimSpace(r.URL.Query().Get("end"))
	if qs == "" && qe == "" {
		return "", "", false, nil
	}
	if qs == "" || qe == "" {
		return "", "", false, errors.New("start and end must be supplied together")
	}
	if start, err = core.ParseDate(qs); err != nil {
		return "", "", false, errors.New("invalid start date")
	}
	if end, err = core.ParseDate(qe); err != nil {
		return "", "", false, errors.New("invalid end date")
	}
	return start, end, true, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	start, end, ranged, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if ranged {
		writeJSON(w, http.StatusOK, s.ledger.ByDateRange(start, end))
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.Transactions())
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	date := core.Today()
	if req.Date != "" {
		if date, err = core.ParseDate(req.Date); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid date")
			return
		}
	}

	user := s.session.User() // non-nil: requireUser gates this handler

	tx := core.Transaction{
		UserID:        user.ID,
		Type:          core.TransactionType(req.Type),
		Amount:        core.Money{Cents: cents},
		Category:      strings.TrimSpace(req.Category),
		Description:   strings.TrimSpace(req.Description),
		Date:          date,
		Currency:      strings.TrimSpace(req.Currency),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		ReceiptImage:  strings.TrimSpace(req.ReceiptImage),
		Tags:          req.Tags,
		Location:      req.Location,
	}
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.ledger.Add(r.Context(), tx)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handlePatchTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req patchTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := core.TransactionPatch{
		Category:      req.Category,
		Description:   req.Description,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
		ReceiptImage:  req.ReceiptImage,
		Tags:          req.Tags,
		Location:      req.Location,
	}
	if req.Type != nil {
		t := core.TransactionType(*req.Type)
		if err := t.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		patch.Type = &t
	}
	if req.Amount != nil {
		cents, err := core.ParseDecimalToCents(*req.Amount)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid amount")
			return
		}
		patch.Amount = &core.Money{Cents: cents}
	}
	if req.Date != nil {
		d, err := core.ParseDate(*req.Date)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid date")
			return
		}
		patch.Date = &d
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
		writeError(w, http.StatusUnprocessableEntity, core.ErrEmptyDescription.Error())
		return
	}

	updated, err := s.ledger.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, core.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.ledger.Delete(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addCategoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Categories())
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req addCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusUnprocessableEntity, "category name cannot be empty")
		return
	}
	s.ledger.AddCategory(r.Context(), name)
	writeJSON(w, http.StatusCreated, s.ledger.Categories())
}
