package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-bookings/internal/catalog"
	"ms-bookings/internal/logger"
	"ms-bookings/internal/models"
	"ms-bookings/internal/utils"
)

type Handler struct {
	Catalog *catalog.Service
	Log     *logger.Logger
}

func NewHandler(svc *catalog.Service, log *logger.Logger) *Handler {
	return &Handler{Catalog: svc, Log: log}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/vendors/{vendorId}/services", h.List)
	r.Post("/vendors/{vendorId}/services", h.Create)
	r.Get("/services/{serviceId}", h.Get)
	r.Put("/services/{serviceId}", h.Update)
	r.Delete("/services/{serviceId}", h.Delete)
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Log.Error("API", "encode response: "+err.Error())
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrInvalidPrice):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type serviceRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	vendorID := chi.URLParam(r, "vendorId")

	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}

	svc, err := h.Catalog.Create(r.Context(), vendorID, req.Name, req.Description, req.Category, req.Price)
	if err != nil {
		h.writeJSON(w, statusFor(err), utils.ErrorResponse("could not create service", err.Error()))
		return
	}
	h.writeJSON(w, http.StatusCreated, utils.SuccessResponse("service created", svc))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.Catalog.ListByVendor(r.Context(), chi.URLParam(r, "vendorId"))
	if err != nil {
		h.writeJSON(w, statusFor(err), utils.ErrorResponse("could not list services", err.Error()))
		return
	}
	h.writeJSON(w, http.StatusOK, services)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	svc, err := h.Catalog.Get(r.Context(), chi.URLParam(r, "serviceId"))
	if err != nil {
		h.writeJSON(w, statusFor(err), utils.ErrorResponse("service not found", err.Error()))
		return
	}
	h.writeJSON(w, http.StatusOK, svc)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	serviceID := chi.URLParam(r, "serviceId")

	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}

	svc := models.VendorService{
		ID:          serviceID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
	}
	if err := h.Catalog.Update(r.Context(), svc); err != nil {
		h.writeJSON(w, statusFor(err), utils.ErrorResponse("could not update service", err.Error()))
		return
	}
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("service updated", svc))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.Delete(r.Context(), chi.URLParam(r, "serviceId")); err != nil {
		h.writeJSON(w, statusFor(err), utils.ErrorResponse("could not delete service", err.Error()))
		return
	}
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("service deleted", nil))
}
