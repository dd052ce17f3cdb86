package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"ops-portal/configs"
	"ops-portal/internal/service"
	"ops-portal/pkg/utils"
)

// DashboardHandler handles dashboard and currency rate HTTP requests
type DashboardHandler struct {
	dashboardService service.DashboardService
	ratesService     service.RatesService
	logger           *logrus.Logger
	config           *configs.Config
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService service.DashboardService, ratesService service.RatesService, logger *logrus.Logger, config *configs.Config) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		ratesService:     ratesService,
		logger:           logger,
		config:           config,
	}
}

// Overview handles the landing-page counters
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboardService.GetOverview(r.Context())
	if err != nil {
		h.logger.Warnf("Failed to build dashboard: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "dashboard retrieved successfully", overview)
}

// Rates handles the latest currency rates
func (h *DashboardHandler) Rates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.ratesService.GetRates(r.Context())
	if err != nil {
		h.logger.Warnf("Failed to get rates: %v", err)
		utils.RespondWithError(w, http.StatusBadGateway, "failed to get currency rates")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "rates retrieved successfully", map[string]interface{}{
		"base_currency": h.config.Rates.BaseCurrency,
		"rates":         rates,
	})
}
