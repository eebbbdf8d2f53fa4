package http

import (
	"net/http"

	"wealthwatcher/internal/core"
	"wealthwatcher/internal/log"
	"wealthwatcher/internal/report"
)

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request, userID string) {
	kind, err := report.ParseKind(r.PathValue("kind"))
	if err != nil {
		ErrorFor(r, log.OpReport, err).Write(w)
		return
	}
	rep, err := s.reports.Report(r.Context(), userID, kind)
	if err != nil {
		ErrorFor(r, log.OpReport, err).Write(w)
		return
	}
	NewJSONResponse().Data(rep).Write(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, userID string) {
	d, err := s.reports.Dashboard(r.Context(), userID)
	if err != nil {
		ErrorFor(r, log.OpReport, err).Write(w)
		return
	}
	NewJSONResponse().Data(d).Write(w)
}

// Account

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request, userID string) {
	p, err := s.records.Profile(r.Context(), userID)
	if err != nil {
		ErrorFor(r, log.OpRead, err).Write(w)
		return
	}
	NewJSONResponse().Data(p).Write(w)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request, userID string) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorFor(r, log.OpUpdate, err).Write(w)
		return
	}
	p, err := s.records.UpdateProfile(r.Context(), userID, core.Profile{
		DisplayName: sanitizeInput(req.DisplayName),
		Email:       sanitizeInput(req.Email),
	})
	if err != nil {
		ErrorFor(r, log.OpUpdate, err).Write(w)
		return
	}
	NewJSONResponse().Data(p).Write(w)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.records.DeleteAccount(r.Context(), userID); err != nil {
		ErrorFor(r, log.OpDelete, err).Write(w)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Account deleted",
		log.NewFields().WithRecord(userID, "").WithOperation(log.OpDelete).ToSlice()...)
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
