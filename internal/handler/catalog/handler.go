package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/zhouzirui/ev-commerce/backend/internal/model/catalog"
	catalogService "github.com/zhouzirui/ev-commerce/backend/internal/service/catalog"
	"github.com/zhouzirui/ev-commerce/backend/pkg/utils"
)

// Handler 车辆目录的HTTP处理器
type Handler struct {
	svc *catalogService.Service
}

// New 创建目录处理器
func New(svc *catalogService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册车辆路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Get("/filter", h.handleFilter)
	r.Get("/brands", h.handleBrands)
	r.Post("/compare", h.handleCompare)
	r.Get("/{vehicleID}", h.handleGet)
}

// handleList 返回在售车辆
func (h *Handler) handleList(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.svc.ListAvailable())
}

// handleGet 返回单个车辆详情
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Get(chi.URLParam(r, "vehicleID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, v)
}

// handleFilter 按品牌、类别、价格区间、最低续航过滤
func (h *Handler) handleFilter(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.svc.Filter(f))
}

// handleBrands 返回品牌列表
func (h *Handler) handleBrands(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.svc.Brands())
}

// handleCompare 对比多辆车并附带月供估算
func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		IDs []string `json:"ids"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Compare(payload.IDs)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, catalogService.ErrVehicleNotFound) {
			status = http.StatusNotFound
		}
		utils.RespondError(w, status, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

func parseFilter(r *http.Request) (catalog.Filter, error) {
	q := r.URL.Query()
	f := catalog.Filter{Brand: q.Get("brand")}

	if raw := q.Get("category"); raw != "" {
		c, ok := catalog.ParseCategory(raw)
		if !ok {
			return f, errors.New("unknown category: " + raw)
		}
		f.Category = c
	}
	if raw := q.Get("minPrice"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return f, errors.New("minPrice must be a number")
		}
		f.MinPrice = &v
	}
	if raw := q.Get("maxPrice"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return f, errors.New("maxPrice must be a number")
		}
		f.MaxPrice = &v
	}
	if raw := q.Get("minRange"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return f, errors.New("minRange must be an integer")
		}
		f.MinRange = v
	}
	return f, nil
}
