package calendar

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"barbearia-backend/internal/httpx"
	"barbearia-backend/internal/middleware"
	"barbearia-backend/internal/schedule"
	"barbearia-backend/internal/transport"
	"barbearia-backend/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc *Service
	val *validation.Validator
	log *slog.Logger
}

func NewHandler(svc *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{svc: svc, val: val, log: log}
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}

type holidayRequest struct {
	Date        string `json:"date" validate:"required,date"`
	Description string `json:"description" validate:"required,max=200"`
}

func (h *Handler) AdminCreateHoliday(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	var req holidayRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		details := httpx.ValidationDetails(h.val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	holiday, err := h.svc.CreateHoliday(ctx, req.Date, req.Description)
	if err != nil {
		h.writeError(log, w, "admin holidays create", err)
		return
	}

	log.Info("admin holidays create: ok", slog.String("date", holiday.Date))
	transport.WriteJSON(w, http.StatusCreated, holiday)
}

func (h *Handler) AdminListHolidays(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	holidays, err := h.svc.ListHolidays(ctx, r.URL.Query().Get("from"))
	if err != nil {
		h.writeError(log, w, "admin holidays list", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"holidays": holidays})
}

func (h *Handler) AdminDeleteHoliday(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := chi.URLParam(r, "id")
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.DeleteHoliday(ctx, id); err != nil {
		h.writeError(log, w, "admin holidays delete", err)
		return
	}

	log.Info("admin holidays delete: ok", slog.String("holiday_id", id))
	transport.WriteMessage(w, http.StatusOK, "holiday removed")
}

type overrideRequest struct {
	Date    string `json:"date" validate:"required,date"`
	Closed  bool   `json:"closed"`
	Opening string `json:"opening" validate:"omitempty,clock"`
	Closing string `json:"closing" validate:"omitempty,clock"`
	Message string `json:"message" validate:"omitempty,max=200"`
}

func (h *Handler) AdminCreateOverride(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	var req overrideRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		details := httpx.ValidationDetails(h.val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}
	if !req.Closed && (req.Opening == "" || req.Closing == "") {
		transport.WriteError(w, http.StatusBadRequest, "special hours need opening and closing", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	override, err := h.svc.CreateOverride(ctx, req.Date, req.Closed, req.Opening, req.Closing, req.Message)
	if err != nil {
		h.writeError(log, w, "admin special-days create", err)
		return
	}

	log.Info("admin special-days create: ok", slog.String("date", override.Date), slog.Bool("closed", override.Closed))
	transport.WriteJSON(w, http.StatusCreated, override)
}

func (h *Handler) AdminListOverrides(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	overrides, err := h.svc.ListOverrides(ctx, r.URL.Query().Get("from"))
	if err != nil {
		h.writeError(log, w, "admin special-days list", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"specialDays": overrides})
}

func (h *Handler) AdminDeleteOverride(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := chi.URLParam(r, "id")
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.DeleteOverride(ctx, id); err != nil {
		h.writeError(log, w, "admin special-days delete", err)
		return
	}

	log.Info("admin special-days delete: ok", slog.String("special_day_id", id))
	transport.WriteMessage(w, http.StatusOK, "special day removed")
}

func (h *Handler) writeError(log *slog.Logger, w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		log.Warn(op + ": not found")
		transport.WriteError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ErrDateTaken), errors.Is(err, ErrInvalidWindow),
		errors.Is(err, schedule.ErrInvalidDate), errors.Is(err, schedule.ErrInvalidTime):
		log.Warn(op+": rejected", slog.String("reason", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
	}
}
