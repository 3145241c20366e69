package cart

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	cartService "github.com/zhouzirui/ev-commerce/backend/internal/service/cart"
	"github.com/zhouzirui/ev-commerce/backend/pkg/utils"
)

// Handler 购物车的HTTP处理器
type Handler struct {
	svc *cartService.Service
}

// New 创建购物车处理器
func New(svc *cartService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册购物车路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/{userID}", func(ur chi.Router) {
		ur.Get("/", h.handleList)
		ur.Get("/total", h.handleTotal)
		ur.Get("/count", h.handleCount)
		ur.Post("/add", h.handleAdd)
		ur.Put("/items/{itemID}", h.handleUpdate)
		ur.Delete("/items/{itemID}", h.handleRemove)
		ur.Delete("/clear", h.handleClear)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.svc.Items(chi.URLParam(r, "userID")))
}

func (h *Handler) handleTotal(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{"total": h.svc.Total(chi.URLParam(r, "userID"))})
}

func (h *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]int{"count": h.svc.Count(chi.URLParam(r, "userID"))})
}

// handleAdd 加入购物车，数量缺省为1
func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		VehicleID string `json:"vehicleId"`
		Quantity  *int   `json:"quantity"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	quantity := 1
	if payload.Quantity != nil {
		quantity = *payload.Quantity
	}

	item, err := h.svc.Add(chi.URLParam(r, "userID"), payload.VehicleID, quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}

// handleUpdate 修改数量，数量<=0时删除该行
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Quantity *int `json:"quantity"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.Quantity == nil {
		utils.RespondError(w, http.StatusBadRequest, "quantity is required")
		return
	}

	item, removed, err := h.svc.Update(chi.URLParam(r, "userID"), chi.URLParam(r, "itemID"), *payload.Quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if removed {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Item removed from cart"})
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(chi.URLParam(r, "userID"), chi.URLParam(r, "itemID")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	h.svc.Clear(chi.URLParam(r, "userID"))
	w.WriteHeader(http.StatusNoContent)
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cartService.ErrVehicleNotFound), errors.Is(err, cartService.ErrItemNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, cartService.ErrVehicleUnavailable):
		utils.RespondError(w, http.StatusConflict, err.Error())
	default:
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	}
}
