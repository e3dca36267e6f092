package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-bookings/internal/logger"
	"ms-bookings/internal/models"
	"ms-bookings/internal/notification"
	"ms-bookings/internal/utils"
)

type Handler struct {
	Notifications *notification.Service
	Log           *logger.Logger
}

func NewHandler(svc *notification.Service, log *logger.Logger) *Handler {
	return &Handler{Notifications: svc, Log: log}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/users/{userId}/notifications", h.UserNotifications)
	r.Get("/users/{userId}/notifications/unread-count", h.UserUnreadCount)
	r.Get("/users/{userId}/notifications/recent", h.UserRecent)
	r.Post("/users/{userId}/notifications/read-all", h.UserMarkAllRead)
	r.Get("/vendors/{vendorId}/notifications", h.VendorNotifications)
	r.Get("/vendors/{vendorId}/notifications/unread-count", h.VendorUnreadCount)
	r.Post("/vendors/{vendorId}/notifications/read-all", h.VendorMarkAllRead)
	r.Post("/notifications/{notificationId}/read", h.MarkRead)
	r.Delete("/notifications/{notificationId}", h.Delete)
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Log.Error("API", "encode response: "+err.Error())
	}
}

func (h *Handler) UserNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.Notifications.ForUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("could not load notifications", err.Error()))
		return
	}
	h.writeJSON(w, http.StatusOK, notifications)
}

func (h *Handler) VendorNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.Notifications.ForVendor(r.Context(), chi.URLParam(r, "vendorId"))
	if err != nil {
		h.writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("could not load notifications", err.Error()))
		return
	}
	h.writeJSON(w, http.StatusOK, notifications)
}

func (h *Handler) UserRecent(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.Notifications.Recent(r.Context(), chi.URLParam(r, "userId"), models.AudienceUser)
	if err != nil {
		h.writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("could not load notifications", err.Error()))
		return
	}
	h.writeJSON(w, http.StatusOK, notifications)
}

func (h *Handler) unreadCount(w http.ResponseWriter, r *http.Request, recipientID string, audience models.Audience) {
	n, err := h.Notifications.UnreadCount(r.Context(), recipientID, audience)
	if err != nil {
		h.writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("could not count notifications", err.Error()))
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"unread": n})
}

func (h *Handler) UserUnreadCount(w http.ResponseWriter, r *http.Request) {
	h.unreadCount(w, r, chi.URLParam(r, "userId"), models.AudienceUser)
}

func (h *Handler) VendorUnreadCount(w http.ResponseWriter, r *http.Request) {
	h.unreadCount(w, r, chi.URLParam(r, "vendorId"), models.AudienceVendor)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "notificationId")
	if err := h.Notifications.MarkAsRead(r.Context(), id); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, notification.ErrNotFound) {
			code = http.StatusNotFound
		}
		h.writeJSON(w, code, utils.ErrorResponse("could not mark notification read", err.Error()))
		return
	}
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("notification marked read", nil))
}

func (h *Handler) UserMarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Notifications.MarkAllAsRead(r.Context(), chi.URLParam(r, "userId"), models.AudienceUser); err != nil {
		h.writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("could not mark notifications read", err.Error()))
		return
	}
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("all notifications marked read", nil))
}

func (h *Handler) VendorMarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Notifications.MarkAllAsRead(r.Context(), chi.URLParam(r, "vendorId"), models.AudienceVendor); err != nil {
		h.writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("could not mark notifications read", err.Error()))
		return
	}
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("all notifications marked read", nil))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "notificationId")
	if err := h.Notifications.Delete(r.Context(), id); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, notification.ErrNotFound) {
			code = http.StatusNotFound
		}
		h.writeJSON(w, code, utils.ErrorResponse("could not delete notification", err.Error()))
		return
	}
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("notification deleted", nil))
}
