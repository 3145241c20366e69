package checkout

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/ev-commerce/backend/internal/model/commerce"
	orderService "github.com/zhouzirui/ev-commerce/backend/internal/service/order"
	"github.com/zhouzirui/ev-commerce/backend/pkg/utils"
)

// Handler 结算与订单的HTTP处理器
type Handler struct {
	svc *orderService.Service
}

// New 创建结算处理器
func New(svc *orderService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册结算路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/order/{orderID}", h.handleGetOrder)
	r.Put("/order/{orderID}/status", h.handleUpdateStatus)
	r.Post("/{userID}", h.handleCheckout)
	r.Get("/{userID}/orders", h.handleListOrders)
}

// handleCheckout 校验支付信息并下单
func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var payload commerce.CheckoutRequest
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.svc.Checkout(chi.URLParam(r, "userID"), payload)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"message":     "Order placed successfully",
		"orderId":     order.ID,
		"totalAmount": order.Total,
		"status":      order.Status,
		"order":       order,
	})
}

// handleListOrders 按时间倒序返回用户订单
func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.svc.ListByUser(chi.URLParam(r, "userID")))
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.Get(chi.URLParam(r, "orderID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, order)
}

// handleUpdateStatus 更新订单状态
func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.svc.UpdateStatus(chi.URLParam(r, "orderID"), payload.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, order)
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orderService.ErrOrderNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	default:
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	}
}
