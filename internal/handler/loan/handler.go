package loan

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/ev-commerce/backend/internal/finance/loan"
	"github.com/zhouzirui/ev-commerce/backend/internal/metrics"
	catalogService "github.com/zhouzirui/ev-commerce/backend/internal/service/catalog"
	"github.com/zhouzirui/ev-commerce/backend/pkg/utils"
)

// Handler 贷款计算相关的HTTP处理器
type Handler struct {
	catalog *catalogService.Service
	metrics *metrics.Metrics
}

// New 创建贷款处理器
func New(catalog *catalogService.Service, m *metrics.Metrics) *Handler {
	return &Handler{catalog: catalog, metrics: m}
}

// RegisterRoutes 注册贷款路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/calculate", h.handleCalculate)
	r.Get("/rates", h.handleRates)
	r.Get("/defaults", h.handleDefaults)
	r.Get("/estimate/{vehicleID}", h.handleEstimate)
}

// flexNumber 兼容前端传入的字符串或数字
type flexNumber string

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexNumber(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("expected a number or numeric string")
	}
	*f = flexNumber(n.String())
	return nil
}

type calculateRequest struct {
	LoanAmount   flexNumber `json:"loanAmount"`
	DownPayment  flexNumber `json:"downPayment"`
	InterestRate flexNumber `json:"interestRate"`
	LoanTerm     flexNumber `json:"loanTerm"`
}

// handleCalculate 计算月供。无法解析的数值按0处理，结果为零报价。
func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var payload calculateRequest
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	quote := loan.Compute(
		loan.ParseAmount(string(payload.LoanAmount)),
		loan.ParseAmount(string(payload.DownPayment)),
		loan.ParseAmount(string(payload.InterestRate)),
		loan.ParseTerm(string(payload.LoanTerm)),
	)
	h.metrics.ObserveQuote(quote.IsZero())

	utils.RespondJSON(w, http.StatusOK, quote.Rounded())
}

// handleRates 返回各信用等级的参考年利率
func (h *Handler) handleRates(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{"rates": loan.Rates()})
}

// handleDefaults 返回计算器页面的默认参数及其报价
func (h *Handler) handleDefaults(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, loan.CalculatorDefaults().Rounded())
}

// handleEstimate 按车辆价格给出快速估算（零首付、5%、60期）
func (h *Handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	vehicleID := chi.URLParam(r, "vehicleID")
	vehicle, quote, err := h.catalog.Estimate(vehicleID)
	if err != nil {
		if errors.Is(err, catalogService.ErrVehicleNotFound) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.metrics.ObserveQuote(quote.IsZero())

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"vehicleId": vehicle.ID,
		"price":     vehicle.Price,
		"estimate":  quote.Rounded(),
	})
}
