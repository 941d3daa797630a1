package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"ratescope/internal/analysis"
	"ratescope/internal/api/models"
	"ratescope/internal/billing"
	"ratescope/internal/data"
	"ratescope/internal/model"

	"github.com/gin-gonic/gin"
)

// BillHandler handles bill calculation requests.
type BillHandler struct{}

// NewBillHandler creates a new bill handler.
func NewBillHandler() *BillHandler {
	return &BillHandler{}
}

// RunBill handles POST /api/v1/bill
func (h *BillHandler) RunBill(c *gin.Context) {
	var req models.BillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}
	if req.ProfilePath == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: "profile_path is required"},
		})
		return
	}

	tariff, err := resolveTariff(req.Tariff, req.OpenEIAPIKey)
	if err != nil {
		writeError(c, err)
		return
	}

	opts := buildOptions(req.Options)
	intervals, err := data.LoadProfileCSV(req.ProfilePath, data.LoadOptions{IntervalMinutes: opts.IntervalMinutes})
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := billing.New(opts).Run(tariff, intervals)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildBillResponse(result, req.IncludeRows))
}

// CompareBills handles POST /api/v1/bill/compare
func (h *BillHandler) CompareBills(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}
	if len(req.Tariffs) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: "at least one tariff is required"},
		})
		return
	}

	opts := buildOptions(req.Options)
	intervals, err := data.LoadProfileCSV(req.ProfilePath, data.LoadOptions{IntervalMinutes: opts.IntervalMinutes})
	if err != nil {
		writeError(c, err)
		return
	}

	tariffs := make(map[string]*model.Tariff, len(req.Tariffs))
	for i, src := range req.Tariffs {
		t, err := resolveTariff(src, req.OpenEIAPIKey)
		if err != nil {
			// Skip tariffs that fail to resolve; the ranking shows the rest.
			continue
		}
		name := src.Name
		if name == "" {
			name = fmt.Sprintf("tariff-%d", i+1)
		}
		tariffs[name] = t
	}

	ranked := analysis.RankByTotalCost(tariffs, intervals, opts)
	resp := models.CompareResponse{Rankings: make([]models.PlanRanking, 0, len(ranked))}
	for _, r := range ranked {
		resp.Rankings = append(resp.Rankings, models.PlanRanking{
			Rank:             r.Rank,
			Name:             r.Name,
			Utility:          r.Utility,
			Start:            r.Start,
			End:              r.End,
			Months:           r.Months,
			TotalKWH:         r.TotalKWH,
			PeakKW:           r.PeakKW,
			TotalCharge:      r.TotalCharge,
			AverageMonthly:   r.AverageMonthly,
			EffectivePerKWH:  r.EffectivePerKWH,
			AdjustmentsFound: r.AdjustmentsFound,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Helper methods

func resolveTariff(src models.TariffSource, apiKey string) (*model.Tariff, error) {
	if len(src.Document) > 0 {
		return data.ParseTariff(src.Document)
	}
	if src.Page != "" {
		client := data.NewOpenEIClient(apiKey, "")
		return client.FetchTariff(src.Page)
	}
	return nil, model.TariffInvalid("MISSING_TARIFF", "tariff needs a document or an OpenEI page id")
}

func buildOptions(o models.BillOptions) billing.Options {
	return billing.Options{
		IntervalMinutes:  o.IntervalMinutes,
		ServiceVoltageKV: o.ServiceVoltageKV,
	}
}

func buildBillResponse(result *billing.Result, includeRows bool) models.BillResponse {
	resp := models.BillResponse{
		Status: "completed",
		Summary: models.BillSummary{
			TotalKWH:         result.TotalKWH,
			TotalCharge:      result.TotalCharge,
			MonthCount:       len(result.Rows),
			Adjustments:      result.Adjustments,
			AdjustmentsFound: result.AdjustmentsFound,
		},
		Months: billing.AppRows(result),
	}
	if includeRows {
		resp.Rows = convertRows(result.Rows)
	}
	return resp
}

func convertRows(rows []billing.MonthlyBillRow) []models.BillRow {
	out := make([]models.BillRow, len(rows))
	for i, r := range rows {
		out[i] = models.BillRow{
			Year:                 r.Year,
			Month:                r.Month,
			TotalKWH:             r.TotalKWH,
			PeakKW:               r.PeakKW,
			AverageKW:            r.AverageKW,
			LoadFactor:           r.LoadFactor,
			EnergyCharge:         r.EnergyCharge,
			EnergyAdjustment:     r.EnergyAdjustment,
			TOUDemandCharge:      r.TOUDemandCharge,
			TOUDemandAdjustment:  r.TOUDemandAdjustment,
			FlatDemandCharge:     r.FlatDemandCharge,
			FlatDemandAdjustment: r.FlatDemandAdjustment,
			FixedCharge:          r.FixedCharge,
			AdjustmentCharge:     r.AdjustmentCharge,
			TotalCharge:          r.TotalCharge,
			EnergyByPeriod:       r.EnergyByPeriod,
			PeakByPeriod:         r.PeakByPeriod,
		}
	}
	return out
}

// writeError maps engine/input errors onto HTTP codes. Input-validation
// failures are 400s with the caller-visible message; OpenEI failures pass
// through their status; everything else is a 500.
func writeError(c *gin.Context, err error) {
	var ie *model.InputError
	if errors.As(err, &ie) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    ie.Code,
				Message: ie.Error(),
				Details: map[string]interface{}{"kind": string(ie.Kind)},
			},
		})
		return
	}
	var oe *data.OpenEIError
	if errors.As(err, &oe) {
		status := http.StatusBadRequest
		switch oe.StatusCode {
		case http.StatusForbidden, http.StatusUnauthorized:
			status = http.StatusUnauthorized
		case http.StatusTooManyRequests:
			status = http.StatusTooManyRequests
		}
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    oe.Code,
				Message: oe.Message,
				Details: map[string]interface{}{
					"status_code": oe.StatusCode,
					"retry_after": oe.RetryAfter,
				},
			},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error: models.ErrorDetail{Code: "CALCULATION_ERROR", Message: err.Error()},
	})
}
