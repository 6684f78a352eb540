package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"barbearia-backend/internal/cache"
	"barbearia-backend/internal/httpx"
	"barbearia-backend/internal/middleware"
	"barbearia-backend/internal/models"
	"barbearia-backend/internal/transport"
	"barbearia-backend/internal/validation"

	"github.com/go-chi/chi/v5"
)

// ConfirmationMailer sends the booking confirmation carrying the access code.
// Best-effort: a send failure never fails the booking.
type ConfirmationMailer interface {
	SendBookingConfirmation(ctx context.Context, appt models.Appointment) (string, error)
}

// Defaults supply the business-day window used when the caller does not pass
// opening/closing/interval explicitly.
type Defaults struct {
	Opening  string
	Closing  string
	Interval int
}

type Handler struct {
	svc      *Service
	val      *validation.Validator
	log      *slog.Logger
	cache    cache.Cache
	cacheTTL time.Duration
	defaults Defaults
	mailer   ConfirmationMailer
}

func NewHandler(svc *Service, val *validation.Validator, log *slog.Logger, c cache.Cache, cacheTTL time.Duration, defaults Defaults, mailer ConfirmationMailer) *Handler {
	return &Handler{
		svc:      svc,
		val:      val,
		log:      log,
		cache:    c,
		cacheTTL: cacheTTL,
		defaults: defaults,
		mailer:   mailer,
	}
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}

type availabilityQuery struct {
	Date         string `validate:"required,date"`
	Professional string `validate:"omitempty,max=60"`
	Opening      string `validate:"required,clock"`
	Closing      string `validate:"required,clock"`
	Interval     int    `validate:"required,gt=0,lte=240"`
}

func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	interval := h.defaults.Interval
	if raw := r.URL.Query().Get("slot_interval_minutes"); raw != "" {
		parsed, err := httpx.ParsePositiveInt(raw)
		if err != nil {
			log.Warn("availability: invalid interval")
			transport.WriteError(w, http.StatusBadRequest, "invalid slot_interval_minutes", nil)
			return
		}
		interval = parsed
	}

	q := availabilityQuery{
		Date:         r.URL.Query().Get("date"),
		Professional: r.URL.Query().Get("professional"),
		Opening:      queryOrDefault(r, "opening_time", h.defaults.Opening),
		Closing:      queryOrDefault(r, "closing_time", h.defaults.Closing),
		Interval:     interval,
	}
	if err := h.val.Struct(q); err != nil {
		log.Warn("availability: invalid query")
		details := httpx.ValidationDetails(h.val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "invalid query", details)
		return
	}

	cacheKey := availabilityCacheKey(q)
	if h.cache != nil {
		if cached, ok, err := h.cache.Get(r.Context(), cacheKey); err == nil && ok {
			log.Info("availability: cache hit", slog.String("date", q.Date))
			writeCachedJSON(w, http.StatusOK, cached)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.svc.AvailableSlots(ctx, SlotQuery{
		Date:         q.Date,
		Professional: q.Professional,
		Opening:      q.Opening,
		Closing:      q.Closing,
		Interval:     q.Interval,
	})
	if err != nil {
		h.writeServiceError(log, w, "availability", err)
		return
	}

	if payload, err := json.Marshal(result); err == nil && h.cache != nil {
		_ = h.cache.Set(r.Context(), cacheKey, payload, h.cacheTTL)
	}

	log.Info("availability: ok", slog.String("date", q.Date), slog.Int("slots", len(result.Slots)))
	transport.WriteJSON(w, http.StatusOK, result)
}

type createRequest struct {
	Date         string `json:"date" validate:"required,date"`
	Time         string `json:"time" validate:"required,clock"`
	Name         string `json:"name" validate:"required,max=100"`
	Contact      string `json:"contact" validate:"required,phone"`
	Email        string `json:"email" validate:"omitempty,email,max=100"`
	Professional string `json:"professional" validate:"required,max=60"`
	Service      string `json:"service" validate:"required,max=100"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	var req createRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("booking create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("booking create: validation error")
		details := httpx.ValidationDetails(h.val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	appt, err := h.svc.Create(ctx, CreateInput{
		Date:         req.Date,
		Time:         req.Time,
		Name:         req.Name,
		Contact:      req.Contact,
		Email:        req.Email,
		Professional: req.Professional,
		Service:      req.Service,
		Opening:      h.defaults.Opening,
		Closing:      h.defaults.Closing,
		Interval:     h.defaults.Interval,
	})
	if err != nil {
		h.writeServiceError(log, w, "booking create", err)
		return
	}

	h.invalidateDate(r.Context(), appt.Date)

	// Confirmation mail goes to the optional email only; contact is a phone
	// number and never an address.
	if h.mailer != nil && appt.Email != "" {
		apptCopy := appt
		go h.sendConfirmation(log, apptCopy)
	}

	log.Info("booking create: booked",
		slog.String("booking_id", appt.ID),
		slog.String("date", appt.Date),
		slog.String("time", appt.Time),
		slog.String("professional", appt.Professional),
	)
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{"booking": appt})
}

type rescheduleRequest struct {
	OldName      string `json:"oldName" validate:"required,max=100"`
	OldContact   string `json:"oldContact" validate:"required,phone"`
	OldDate      string `json:"oldDate" validate:"required,date"`
	OldTime      string `json:"oldTime" validate:"required,clock"`
	AccessCode   string `json:"senha" validate:"required,accesscode"`
	NewDate      string `json:"newDate" validate:"required,date"`
	NewTime      string `json:"newTime" validate:"required,clock"`
	Professional string `json:"professional" validate:"omitempty,max=60"`
	Service      string `json:"service" validate:"omitempty,max=100"`
}

func (h *Handler) Reschedule(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	var req rescheduleRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("booking reschedule: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("booking reschedule: validation error")
		details := httpx.ValidationDetails(h.val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	appt, err := h.svc.Reschedule(ctx, RescheduleInput{
		OldName:      req.OldName,
		OldContact:   req.OldContact,
		OldDate:      req.OldDate,
		OldTime:      req.OldTime,
		AccessCode:   req.AccessCode,
		NewDate:      req.NewDate,
		NewTime:      req.NewTime,
		Professional: req.Professional,
		Service:      req.Service,
		Opening:      h.defaults.Opening,
		Closing:      h.defaults.Closing,
		Interval:     h.defaults.Interval,
	})
	if err != nil {
		h.writeServiceError(log, w, "booking reschedule", err)
		return
	}

	h.invalidateDate(r.Context(), req.OldDate)
	h.invalidateDate(r.Context(), appt.Date)

	log.Info("booking reschedule: ok",
		slog.String("booking_id", appt.ID),
		slog.String("date", appt.Date),
		slog.String("time", appt.Time),
	)
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"booking": appt})
}

type cancelRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Contact    string `json:"contact" validate:"required,phone"`
	Date       string `json:"date" validate:"required,date"`
	Time       string `json:"time" validate:"required,clock"`
	AccessCode string `json:"senha" validate:"required,accesscode"`
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	var req cancelRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("booking cancel: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("booking cancel: validation error")
		details := httpx.ValidationDetails(h.val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	appt, err := h.svc.Cancel(ctx, CancelInput{
		Name:       req.Name,
		Contact:    req.Contact,
		Date:       req.Date,
		Time:       req.Time,
		AccessCode: req.AccessCode,
	})
	if err != nil {
		h.writeServiceError(log, w, "booking cancel", err)
		return
	}

	h.invalidateDate(r.Context(), appt.Date)

	log.Info("booking cancel: ok", slog.String("booking_id", appt.ID))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "booking canceled",
		"booking": appt,
	})
}

type lookupRequest struct {
	Contact    string `json:"contact" validate:"required,phone"`
	AccessCode string `json:"senha" validate:"required,accesscode"`
}

func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	var req lookupRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("booking lookup: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("booking lookup: validation error")
		details := httpx.ValidationDetails(h.val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	appts, err := h.svc.FindByCredential(ctx, req.Contact, req.AccessCode)
	if err != nil {
		h.writeServiceError(log, w, "booking lookup", err)
		return
	}

	log.Info("booking lookup: ok", slog.Int("count", len(appts)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"bookings": appts})
}

type adminListQuery struct {
	Date string `validate:"omitempty,date"`
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	q := adminListQuery{Date: r.URL.Query().Get("date")}
	if err := h.val.Struct(q); err != nil {
		log.Warn("admin bookings: invalid query")
		transport.WriteError(w, http.StatusBadRequest, "invalid query", nil)
		return
	}

	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 50, 500)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	appts, err := h.svc.ListAdmin(ctx, q.Date, limit, offset)
	if err != nil {
		h.writeServiceError(log, w, "admin bookings", err)
		return
	}

	log.Info("admin bookings: ok", slog.Int("count", len(appts)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"bookings": appts})
}

type outcomeRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=fulfilled not_fulfilled"`
}

func (h *Handler) AdminMarkOutcome(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := chi.URLParam(r, "id")
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req outcomeRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin outcome: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin outcome: validation error")
		details := httpx.ValidationDetails(h.val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	appt, err := h.svc.MarkOutcome(ctx, id, req.Outcome)
	if err != nil {
		h.writeServiceError(log, w, "admin outcome", err)
		return
	}

	log.Info("admin outcome: ok", slog.String("booking_id", appt.ID), slog.String("outcome", appt.Outcome))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"booking": appt})
}

func (h *Handler) writeServiceError(log *slog.Logger, w http.ResponseWriter, op string, err error) {
	if ve, ok := AsValidationError(err); ok {
		log.Warn(op + ": validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", ve.Fields)
		return
	}
	if errors.Is(err, ErrConflict) {
		log.Warn(op + ": slot conflict")
		transport.WriteError(w, http.StatusConflict, "slot already booked", nil)
		return
	}
	if errors.Is(err, ErrNotFound) {
		log.Warn(op + ": not found")
		transport.WriteError(w, http.StatusNotFound, "booking not found", nil)
		return
	}
	log.Error(op+": database error", slog.String("error", err.Error()))
	transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
}

func (h *Handler) sendConfirmation(log *slog.Logger, appt models.Appointment) {
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()

	messageID, err := h.mailer.SendBookingConfirmation(ctx, appt)
	if err != nil {
		log.Warn("booking email: send failed",
			slog.String("booking_id", appt.ID),
			slog.String("error", err.Error()),
		)
		return
	}
	log.Info("booking email: sent",
		slog.String("booking_id", appt.ID),
		slog.String("message_id", messageID),
	)
}

func (h *Handler) invalidateDate(ctx context.Context, date string) {
	if h.cache == nil {
		return
	}
	_ = h.cache.DeletePrefix(ctx, "availability:"+date+":")
}

func availabilityCacheKey(q availabilityQuery) string {
	return fmt.Sprintf("availability:%s:%s:%s-%s:%d", q.Date, q.Professional, q.Opening, q.Closing, q.Interval)
}

func queryOrDefault(r *http.Request, key, fallback string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return fallback
}

func writeCachedJSON(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}
