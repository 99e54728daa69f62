// Package http implements the REST API for the attendance hub.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/presenca-hub/attendance-hub/internal/application/command"
	"github.com/presenca-hub/attendance-hub/internal/application/query"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/internal/domain/student"
	"github.com/presenca-hub/attendance-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "Attendance Hub API",
		"version":     "v1",
		"description": "REST API for the school attendance ledger and absence reports",
		"endpoints": map[string]string{
			"health":         "/health",
			"daily_report":   "/api/v1/reports/daily",
			"monthly_report": "/api/v1/reports/monthly",
			"custom_report":  "/api/v1/reports/custom",
			"students":       "/api/v1/students",
			"commit_day":     "/api/v1/attendance/days/{date}",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	// Default health response
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// handleMetrics exposes basic server metrics as JSON.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := map[string]interface{}{
		"uptime_seconds": s.Uptime().Seconds(),
		"running":        s.IsRunning(),
	}

	writeJSON(w, http.StatusOK, metrics)
}

// ══════════════════════════════════════════════════════════════════════════════
// REPORT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleDailyReport handles GET /api/v1/reports/daily?day=YYYY-MM-DD
func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	if s.deps.DailyReportHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Daily report handler not configured")
		return
	}

	q := query.DailyReportQuery{
		Day:    getQueryParam(r, "day", ""),
		Filter: attributeFilterFromQuery(r),
	}

	view, err := s.deps.DailyReportHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, err, "daily report")
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, view, &ResponseMeta{TotalCount: view.Total})
}

// handleMonthlyReport handles GET /api/v1/reports/monthly?year=2024&month=3
func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	if s.deps.MonthlyReportHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Monthly report handler not configured")
		return
	}

	q := query.MonthlyReportQuery{
		Year:   getQueryParamInt(r, "year", 0),
		Month:  getQueryParamInt(r, "month", 0),
		Filter: attributeFilterFromQuery(r),
	}

	view, err := s.deps.MonthlyReportHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, err, "monthly report")
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, view, &ResponseMeta{TotalCount: len(view.Entries)})
}

// handleCustomReport handles GET /api/v1/reports/custom?from=...&to=...&weekdays=1,3,5
func (s *Server) handleCustomReport(w http.ResponseWriter, r *http.Request) {
	if s.deps.CustomReportHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Custom report handler not configured")
		return
	}

	weekdays, err := parseWeekdays(getQueryParam(r, "weekdays", ""))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_filter", "weekdays must be a comma-separated list of 0..6")
		return
	}

	q := query.CustomReportQuery{
		From:     getQueryParam(r, "from", ""),
		To:       getQueryParam(r, "to", ""),
		Weekdays: weekdays,
		Filter:   attributeFilterFromQuery(r),
	}

	view, err := s.deps.CustomReportHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, err, "custom report")
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, view, &ResponseMeta{TotalCount: len(view.Entries)})
}

// handleIndividualReport handles GET /api/v1/students/{id}/absences?from=...&to=...
func (s *Server) handleIndividualReport(w http.ResponseWriter, r *http.Request) {
	if s.deps.IndividualReportHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Individual report handler not configured")
		return
	}

	id, ok := s.studentIDPath(w, r)
	if !ok {
		return
	}

	q := query.IndividualReportQuery{
		StudentID: id,
		From:      getQueryParam(r, "from", ""),
		To:        getQueryParam(r, "to", ""),
	}

	view, err := s.deps.IndividualReportHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, err, "individual report")
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, view, &ResponseMeta{TotalCount: len(view.Entries)})
}

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListStudents handles GET /api/v1/students
func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	if s.deps.ListStudentsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Student listing handler not configured")
		return
	}

	q := query.ListStudentsQuery{
		Filter: student.ListFilter{
			Grade:  getQueryParam(r, "grade", ""),
			Class:  getQueryParam(r, "class", ""),
			Shift:  getQueryParam(r, "shift", ""),
			Ensino: getQueryParam(r, "ensino", ""),
			Search: getQueryParam(r, "search", ""),
		},
	}

	result, err := s.deps.ListStudentsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, err, "student listing")
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, result, &ResponseMeta{TotalCount: result.Total})
}

// registerStudentRequest is the body of POST /api/v1/students.
type registerStudentRequest struct {
	Name   string `json:"name"`
	Grade  string `json:"grade"`
	Class  string `json:"class"`
	Shift  string `json:"shift"`
	Ensino string `json:"ensino"`
	Phone  string `json:"phone"`
}

// handleRegisterStudent handles POST /api/v1/students
func (s *Server) handleRegisterStudent(w http.ResponseWriter, r *http.Request) {
	if s.deps.ManageStudentHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Student management handler not configured")
		return
	}
	if !s.requireAPIKey(w, r) {
		return
	}

	var req registerStudentRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		return
	}

	created, err := s.deps.ManageStudentHandler.Register(r.Context(), command.RegisterStudentCommand{
		Name:   req.Name,
		Grade:  req.Grade,
		Class:  req.Class,
		Shift:  req.Shift,
		Ensino: req.Ensino,
		Phone:  req.Phone,
	})
	if err != nil {
		s.writeDomainError(w, err, "student registration")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// updateStudentRequest is the body of PATCH /api/v1/students/{id}.
// Absent fields are left untouched.
type updateStudentRequest struct {
	Name   *string `json:"name"`
	Grade  *string `json:"grade"`
	Class  *string `json:"class"`
	Shift  *string `json:"shift"`
	Ensino *string `json:"ensino"`
	Phone  *string `json:"phone"`
}

// handleUpdateStudent handles PATCH /api/v1/students/{id}
func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	if s.deps.ManageStudentHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Student management handler not configured")
		return
	}
	if !s.requireAPIKey(w, r) {
		return
	}

	id, ok := s.studentIDPath(w, r)
	if !ok {
		return
	}

	var req updateStudentRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		return
	}

	updated, err := s.deps.ManageStudentHandler.Update(r.Context(), command.UpdateStudentCommand{
		StudentID: id,
		Changes: student.Changes{
			Name:   req.Name,
			Grade:  req.Grade,
			Class:  req.Class,
			Shift:  req.Shift,
			Ensino: req.Ensino,
			Phone:  req.Phone,
		},
	})
	if err != nil {
		s.writeDomainError(w, err, "student update")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// handleRemoveStudent handles DELETE /api/v1/students/{id}
func (s *Server) handleRemoveStudent(w http.ResponseWriter, r *http.Request) {
	if s.deps.ManageStudentHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Student management handler not configured")
		return
	}
	if !s.requireAPIKey(w, r) {
		return
	}

	id, ok := s.studentIDPath(w, r)
	if !ok {
		return
	}

	err := s.deps.ManageStudentHandler.Remove(r.Context(), command.RemoveStudentCommand{
		StudentID: id,
	})
	if err != nil {
		s.writeDomainError(w, err, "student removal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// backfillPhoneRequest is the body of PATCH /api/v1/students/{id}/phone.
type backfillPhoneRequest struct {
	Phone string `json:"phone"`
}

// handleBackfillPhone handles PATCH /api/v1/students/{id}/phone
func (s *Server) handleBackfillPhone(w http.ResponseWriter, r *http.Request) {
	if s.deps.BackfillPhoneHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Phone back-fill handler not configured")
		return
	}
	if !s.requireAPIKey(w, r) {
		return
	}

	id, ok := s.studentIDPath(w, r)
	if !ok {
		return
	}

	var req backfillPhoneRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		return
	}

	result, err := s.deps.BackfillPhoneHandler.Handle(r.Context(), command.BackfillPhoneCommand{
		StudentID:     id,
		Phone:         req.Phone,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, err, "phone back-fill")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"student_id":         result.StudentID,
		"attendance_records": result.AttendanceRecords,
		"transport_records":  result.TransportRecords,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// commitDayRequest is the body of PUT /api/v1/attendance/days/{date}.
type commitDayRequest struct {
	// Decisions maps student ID to "present", "absent" or "justified".
	// Roster members missing from the map default to absent.
	Decisions map[string]string `json:"decisions"`

	// Filter narrows the roster the commit spans. Empty means everyone.
	Filter struct {
		Grade  string `json:"grade"`
		Class  string `json:"class"`
		Shift  string `json:"shift"`
		Ensino string `json:"ensino"`
	} `json:"filter"`
}

// handleCommitDay handles PUT /api/v1/attendance/days/{date}
func (s *Server) handleCommitDay(w http.ResponseWriter, r *http.Request) {
	if s.deps.CommitDayHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Day commit handler not configured")
		return
	}
	if !s.requireAPIKey(w, r) {
		return
	}

	var req commitDayRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		return
	}

	result, err := s.deps.CommitDayHandler.Handle(r.Context(), command.CommitDayCommand{
		Day:       r.PathValue("date"),
		Decisions: req.Decisions,
		Filter: student.ListFilter{
			Grade:  req.Filter.Grade,
			Class:  req.Filter.Class,
			Shift:  req.Filter.Shift,
			Ensino: req.Filter.Ensino,
		},
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, err, "day commit")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"day":          result.Day.String(),
		"record_count": result.RecordCount,
		"absent_count": result.AbsentCount,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// TRANSPORT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetTransport handles GET /api/v1/students/{id}/transport
func (s *Server) handleGetTransport(w http.ResponseWriter, r *http.Request) {
	if s.deps.TransportRecords == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Transport repository not configured")
		return
	}

	id, ok := s.studentIDPath(w, r)
	if !ok {
		return
	}

	record, err := s.deps.TransportRecords.GetByStudent(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err, "transport lookup")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// saveTransportRequest is the body of PUT /api/v1/students/{id}/transport.
type saveTransportRequest struct {
	Route   string `json:"route"`
	Vehicle string `json:"vehicle"`
	Period  string `json:"period"`
}

// handleSaveTransport handles PUT /api/v1/students/{id}/transport
func (s *Server) handleSaveTransport(w http.ResponseWriter, r *http.Request) {
	if s.deps.SaveTransportHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Transport handler not configured")
		return
	}
	if !s.requireAPIKey(w, r) {
		return
	}

	id, ok := s.studentIDPath(w, r)
	if !ok {
		return
	}

	var req saveTransportRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		return
	}

	record, err := s.deps.SaveTransportHandler.Handle(r.Context(), command.SaveTransportCommand{
		StudentID: id,
		Route:     req.Route,
		Vehicle:   req.Vehicle,
		Period:    req.Period,
	})
	if err != nil {
		s.writeDomainError(w, err, "transport save")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST & ERROR HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// studentIDPath parses and normalizes the {id} path segment, writing a 400
// for malformed IDs before the application layer is reached.
func (s *Server) studentIDPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	sid, err := shared.NewStudentID(r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, err, "student id")
		return "", false
	}
	return sid.String(), true
}

// decodeJSONBody decodes the request body, writing a 400 on failure.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_body", "Request body is not valid JSON", err.Error())
		return err
	}
	return nil
}

// attributeFilterFromQuery builds the report filter from query parameters.
func attributeFilterFromQuery(r *http.Request) shared.AttributeFilter {
	return shared.AttributeFilter{
		Grade:  getQueryParam(r, "grade", ""),
		Class:  getQueryParam(r, "class", ""),
		Shift:  getQueryParam(r, "shift", ""),
		Ensino: getQueryParam(r, "ensino", ""),
	}
}

// parseWeekdays parses a comma-separated weekday list ("1,3,5").
// An empty value yields nil; the query validation decides whether that
// is acceptable.
func parseWeekdays(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// writeDomainError maps a domain error to an HTTP status. Validation and
// filter errors are the caller's fault; conflicts ask for a retry; store
// failures surface as 503 so load balancers can back off.
func (s *Server) writeDomainError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, shared.ErrUnknownStudent) || errors.Is(err, shared.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, shared.ErrWriteConflict):
		writeJSONError(w, http.StatusConflict, "write_conflict", err.Error())
	case errors.Is(err, shared.ErrAlreadyExists):
		writeJSONError(w, http.StatusConflict, "already_exists", err.Error())
	case errors.Is(err, shared.ErrStoreUnavailable):
		s.logger.Error("store unavailable", logger.String("op", op), logger.Err(err))
		writeJSONError(w, http.StatusServiceUnavailable, "store_unavailable", "The attendance store is unavailable")
	case errors.Is(err, shared.ErrInvalidFilter),
		errors.Is(err, shared.ErrValidation),
		errors.Is(err, shared.ErrInvalidID),
		errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvalidFormat),
		errors.Is(err, shared.ErrEmptyValue):
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		s.logger.Error("request failed", logger.String("op", op), logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "The "+op+" could not be completed")
	}
}
