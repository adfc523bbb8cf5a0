package handlers

import (
	"log"
	"net/http"
)

// GetDashboardMetricsHandler godoc
// @Summary Dashboard metrics for admin view
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} repo.DashboardMetrics
// @Failure 500 {string} string "Internal error"
// @Router /api/v1/admin/dashboard [get]
func GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	m, err := metricsRepo.GetDashboardMetrics()
	if err != nil {
		http.Error(w, "failed to fetch metrics", http.StatusInternalServerError)
		return
	}
	if err := writeJSON(w, http.StatusOK, m); err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}
