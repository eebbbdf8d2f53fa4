package http

import (
	"net/http"

	"wealthwatcher/internal/core"
	"wealthwatcher/internal/log"
)

// Expenses

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request, userID string) {
	items, err := s.records.ListExpenses(r.Context(), userID)
	if err != nil {
		ErrorFor(r, log.OpList, err).Write(w)
		return
	}
	NewJSONResponse().Data(items).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request, userID string) {
	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorFor(r, log.OpCreate, err).Write(w)
		return
	}
	e, err := req.expense("")
	if err == nil {
		e, err = s.records.AddExpense(r.Context(), userID, e)
	}
	if err != nil {
		ErrorFor(r, log.OpCreate, err).Write(w)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Data(e).Write(w)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request, userID string) {
	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorFor(r, log.OpUpdate, err).Write(w)
		return
	}
	e, err := req.expense(r.PathValue("id"))
	if err == nil {
		e, err = s.records.UpdateExpense(r.Context(), userID, e)
	}
	if err != nil {
		ErrorFor(r, log.OpUpdate, err).Write(w)
		return
	}
	NewJSONResponse().Data(e).Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.records.DeleteExpense(r.Context(), userID, r.PathValue("id")); err != nil {
		ErrorFor(r, log.OpDelete, err).Write(w)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

// Budgets

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request, userID string) {
	items, err := s.records.ListBudgets(r.Context(), userID)
	if err != nil {
		ErrorFor(r, log.OpList, err).Write(w)
		return
	}
	NewJSONResponse().Data(items).Write(w)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request, userID string) {
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorFor(r, log.OpCreate, err).Write(w)
		return
	}
	b, err := req.budget("")
	if err == nil {
		b, err = s.records.AddBudget(r.Context(), userID, b)
	}
	if err != nil {
		ErrorFor(r, log.OpCreate, err).Write(w)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Data(b).Write(w)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request, userID string) {
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorFor(r, log.OpUpdate, err).Write(w)
		return
	}
	b, err := req.budget(r.PathValue("id"))
	if err == nil {
		b, err = s.records.UpdateBudget(r.Context(), userID, b)
	}
	if err != nil {
		ErrorFor(r, log.OpUpdate, err).Write(w)
		return
	}
	NewJSONResponse().Data(b).Write(w)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.records.DeleteBudget(r.Context(), userID, r.PathValue("id")); err != nil {
		ErrorFor(r, log.OpDelete, err).Write(w)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

// Goals

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request, userID string) {
	items, err := s.records.ListGoals(r.Context(), userID)
	if err != nil {
		ErrorFor(r, log.OpList, err).Write(w)
		return
	}
	NewJSONResponse().Data(items).Write(w)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request, userID string) {
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorFor(r, log.OpCreate, err).Write(w)
		return
	}
	g, err := req.goal("")
	if err == nil {
		g, err = s.records.AddGoal(r.Context(), userID, g)
	}
	if err != nil {
		ErrorFor(r, log.OpCreate, err).Write(w)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Data(g).Write(w)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request, userID string) {
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorFor(r, log.OpUpdate, err).Write(w)
		return
	}
	g, err := req.goal(r.PathValue("id"))
	if err == nil {
		g, err = s.records.UpdateGoal(r.Context(), userID, g, req.CurrentAmount.set)
	}
	if err != nil {
		ErrorFor(r, log.OpUpdate, err).Write(w)
		return
	}
	NewJSONResponse().Data(g).Write(w)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.records.DeleteGoal(r.Context(), userID, r.PathValue("id")); err != nil {
		ErrorFor(r, log.OpDelete, err).Write(w)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request, userID string) {
	s.adjustGoal(w, r, userID, log.OpDeposit)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request, userID string) {
	s.adjustGoal(w, r, userID, log.OpWithdraw)
}

// adjustGoal moves money into or out of a goal. The body always carries a
// positive amount; op decides the sign.
func (s *Server) adjustGoal(w http.ResponseWriter, r *http.Request, userID, op string) {
	var req adjustRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorFor(r, op, err).Write(w)
		return
	}
	delta, err := req.Amount.value()
	if err != nil {
		ErrorFor(r, op, err).Write(w)
		return
	}
	if op == log.OpWithdraw {
		delta = delta.Neg()
	}

	g, err := s.records.AdjustGoal(r.Context(), userID, r.PathValue("id"), delta)
	if err != nil {
		ErrorFor(r, op, err).Write(w)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Goal adjusted",
		log.NewFields().WithRecord(userID, string(core.Goals)).WithOperation(op).ToSlice()...)
	NewJSONResponse().Data(g).Write(w)
}
