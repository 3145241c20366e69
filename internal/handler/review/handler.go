package review

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/ev-commerce/backend/internal/model/commerce"
	reviewService "github.com/zhouzirui/ev-commerce/backend/internal/service/review"
	"github.com/zhouzirui/ev-commerce/backend/pkg/utils"
)

// Handler 车辆评价的HTTP处理器
type Handler struct {
	svc *reviewService.Service
}

// New 创建评价处理器
func New(svc *reviewService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册评价路由。写操作通过 userId 查询参数识别用户。
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ev/{vehicleID}", h.handleListByVehicle)
	r.Get("/ev/{vehicleID}/verified", h.handleListVerified)
	r.Get("/ev/{vehicleID}/stats", h.handleStats)
	r.Post("/ev/{vehicleID}", h.handleCreate)
	r.Get("/user/{userID}", h.handleListByUser)
	r.Put("/{reviewID}", h.handleUpdate)
	r.Delete("/{reviewID}", h.handleDelete)
	r.Post("/{reviewID}/verify", h.handleVerify)
}

func (h *Handler) handleListByVehicle(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.svc.ListByVehicle(chi.URLParam(r, "vehicleID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, reviews)
}

func (h *Handler) handleListVerified(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.svc.ListVerified(chi.URLParam(r, "vehicleID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, reviews)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(chi.URLParam(r, "vehicleID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleListByUser(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.svc.ListByUser(chi.URLParam(r, "userID")))
}

// handleCreate 发表评价，同一用户对同一车辆只能评价一次
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload commerce.ReviewInput
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.svc.Create(r.URL.Query().Get("userId"), chi.URLParam(r, "vehicleID"), payload)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, review)
}

// handleUpdate 修改自己的评价
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload commerce.ReviewInput
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.svc.Update(chi.URLParam(r, "reviewID"), r.URL.Query().Get("userId"), payload)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, review)
}

// handleDelete 删除自己的评价
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(chi.URLParam(r, "reviewID"), r.URL.Query().Get("userId")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleVerify 标记为已验证购买
func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	review, err := h.svc.Verify(chi.URLParam(r, "reviewID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, review)
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reviewService.ErrVehicleNotFound), errors.Is(err, reviewService.ErrReviewNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, reviewService.ErrAlreadyReviewed):
		utils.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, reviewService.ErrNotOwner):
		utils.RespondError(w, http.StatusForbidden, err.Error())
	default:
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	}
}
