package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"wealthlog/pkg/wealthlog"
)

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Holdings.

func (h *handler) listHoldings(w http.ResponseWriter, r *http.Request) {
	withMetrics := r.URL.Query().Get("with_metrics") == "1"
	if withMetrics {
		result, err := h.core.ListHoldingsWithMetrics()
		if err != nil {
			writeErrorResponse(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}
	result, err := h.core.ListHoldings()
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) addHolding(w http.ResponseWriter, r *http.Request) {
	var payload holdingPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.core.AddHolding(holdingRequestFromPayload(payload))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

func (h *handler) getHolding(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	holding, err := h.core.GetHolding(id)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	if holding == nil {
		writeError(w, http.StatusNotFound, "holding not found")
		return
	}
	writeJSON(w, http.StatusOK, holding)
}

func (h *handler) updateHolding(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload holdingPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.core.UpdateHolding(id, holdingRequestFromPayload(payload)); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *handler) deleteHolding(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := h.core.DeleteHolding(id)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "holding not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *handler) withdrawHolding(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload withdrawPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.core.WithdrawHolding(id, payload.Date); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "withdrawn"})
}

func (h *handler) holdingMetrics(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	metrics, err := h.core.HoldingMetrics(id)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (h *handler) holdingTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	result, err := h.core.GetTransactions(id)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Transactions.

func (h *handler) addTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.core.AddTransaction(transactionRequestFromPayload(payload))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

func (h *handler) getTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	txn, err := h.core.GetTransaction(id)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	if txn == nil {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

func (h *handler) updateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload transactionPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.core.UpdateTransaction(id, transactionRequestFromPayload(payload)); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *handler) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := h.core.DeleteTransaction(id)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Portfolio.

func (h *handler) portfolioStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.core.PortfolioStats()
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) periodStats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	result, err := h.core.PeriodStats(query.Get("start_date"), query.Get("end_date"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) portfolioValuation(w http.ResponseWriter, r *http.Request) {
	currency := r.URL.Query().Get("currency")
	result, err := h.core.PortfolioValuation(currency)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Exchange rates.

func (h *handler) getExchangeRates(w http.ResponseWriter, r *http.Request) {
	result, err := h.core.GetExchangeRates()
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) setExchangeRate(w http.ResponseWriter, r *http.Request) {
	var payload exchangeRatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.core.SetExchangeRate(payload.Currency, payload.Rate, payload.Source); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// AI insight.

func (h *handler) getInsightSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.core.GetInsightSettings()
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *handler) setInsightSettings(w http.ResponseWriter, r *http.Request) {
	var payload insightSettingsPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	settings, err := h.core.SetInsightSettings(wealthlog.InsightSettings{
		Provider:    payload.Provider,
		BaseURL:     payload.BaseURL,
		Model:       payload.Model,
		RiskProfile: payload.RiskProfile,
		Tone:        payload.Tone,
	})
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *handler) portfolioInsight(w http.ResponseWriter, r *http.Request) {
	var payload insightPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.core.PortfolioInsight(wealthlog.PortfolioInsightRequest{
		BaseURL:     payload.BaseURL,
		APIKey:      payload.APIKey,
		Model:       payload.Model,
		Currency:    payload.Currency,
		RiskProfile: payload.RiskProfile,
		Tone:        payload.Tone,
	})
	if err != nil {
		h.logger.Error("portfolio insight failed",
			"currency", payload.Currency,
			"model", payload.Model,
			"base_url", payload.BaseURL,
			"err", err,
		)
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Helpers.

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func holdingRequestFromPayload(payload holdingPayload) wealthlog.AddHoldingRequest {
	return wealthlog.AddHoldingRequest{
		Name:          payload.Name,
		Category:      payload.Category,
		Behavior:      payload.Behavior,
		Currency:      payload.Currency,
		DepositDate:   payload.DepositDate,
		MaturityDate:  payload.MaturityDate,
		AnnualRate:    payload.AnnualRate,
		Basis:         payload.Basis,
		Rebate:        payload.Rebate,
		RebateGot:     payload.RebateGot,
		CurrentReturn: payload.CurrentReturn,
		Notes:         payload.Notes,
		Principal:     payload.Principal,
		Quantity:      payload.Quantity,
	}
}

func transactionRequestFromPayload(payload transactionPayload) wealthlog.AddTransactionRequest {
	return wealthlog.AddTransactionRequest{
		HoldingID: payload.HoldingID,
		Date:      payload.Date,
		Type:      payload.Type,
		Amount:    payload.Amount,
		Quantity:  payload.Quantity,
		Price:     payload.Price,
		Notes:     payload.Notes,
	}
}
