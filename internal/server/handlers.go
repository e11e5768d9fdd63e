package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Veraticus/finlens/internal/amortization"
	"github.com/Veraticus/finlens/internal/budget"
	"github.com/Veraticus/finlens/internal/common"
	"github.com/Veraticus/finlens/internal/model"
	"github.com/Veraticus/finlens/internal/money"
	"github.com/Veraticus/finlens/internal/planner"
	"github.com/Veraticus/finlens/internal/service"
	"github.com/Veraticus/finlens/internal/storage"
	"github.com/Veraticus/finlens/internal/target"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// AmortizationResponse is a payoff schedule with its duration split into
// years and months.
type AmortizationResponse struct {
	model.LoanResult
	PaidOff bool `json:"paidOff"`
	Years   int  `json:"years"`
	Months  int  `json:"months"`
}

// PlannerResponse is a simulation with its headline summary.
type PlannerResponse struct {
	Result  model.PlannerResult  `json:"result"`
	Summary model.PlannerSummary `json:"summary"`
}

// BudgetContextResponse is the cross-tool context of a budget.
type BudgetContextResponse struct {
	Totals  model.BudgetTotals     `json:"totals"`
	Context model.CrossToolContext `json:"context"`
}

func (s *Server) handleAmortization(w http.ResponseWriter, r *http.Request) {
	var in model.LoanScenario
	if !decode(w, r, &in) {
		return
	}

	result := amortization.Compute(in)
	resp := AmortizationResponse{LoanResult: result, PaidOff: result.PaidOff()}
	resp.Years, resp.Months = amortization.YearsMonths(result.MonthsToPayoff)
	writeJSON(w, http.StatusOK, resp)
}

// handleInvestmentPlan accepts a target scenario document: a target date,
// or a birth date and target age, plus the plan parameters.
func (s *Server) handleInvestmentPlan(w http.ResponseWriter, r *http.Request) {
	var in model.TargetScenario
	if !decode(w, r, &in) {
		return
	}

	result, err := target.Compute(in.Scenario(), s.state.Now())
	if err != nil {
		var verr *common.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: verr.Message, Field: verr.Field})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePlannerSimulate(w http.ResponseWriter, r *http.Request) {
	var in model.PlannerState
	if !decode(w, r, &in) {
		return
	}

	result := planner.Simulate(in)
	writeJSON(w, http.StatusOK, PlannerResponse{
		Result:  result,
		Summary: planner.Summarize(result, in.AdjustForInflation),
	})
}

func (s *Server) handleBudgetContext(w http.ResponseWriter, r *http.Request) {
	var in model.BudgetState
	if !decode(w, r, &in) {
		return
	}

	ctx := r.Context()
	f := money.ForProfile(s.state.Profile(ctx))
	totals := budget.Totals(in)
	writeJSON(w, http.StatusOK, BudgetContextResponse{
		Totals:  totals,
		Context: budget.ComputeContext(ctx, s.state.Store(), totals, f),
	})
}

// handleGetState returns a stored document verbatim.
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !service.IsKnownKey(key) {
		writeError(w, http.StatusNotFound, storage.ErrUnknownKey.Error())
		return
	}

	raw, err := s.state.Store().Get(r.Context(), key)
	switch {
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "no document saved under "+key)
		return
	case err != nil:
		common.LogError(err, "Failed to read state document", common.Fields{"key": key})
		writeError(w, http.StatusServiceUnavailable, "state store unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		slog.Warn("Failed to write response", "error", err)
	}
}

// decode reads a JSON request body into v, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}
