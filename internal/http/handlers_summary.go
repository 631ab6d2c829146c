package http

import (
	"fmt"
	"net/http"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	start, end, _, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The ledger version invalidates cached views on any mutation.
	key := fmt.Sprintf("%s|%s|%d", start, end, s.ledger.Version())
	if summary, ok := s.summaryCache.Get(key); ok {
		writeJSON(w, http.StatusOK, summary)
		return
	}

	summary := s.ledger.Summarize(start, end)
	s.summaryCache.Set(key, summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	start, end, ranged, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !ranged {
		writeError(w, http.StatusBadRequest, "start and end are required")
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.DayTotals(start, end))
}
