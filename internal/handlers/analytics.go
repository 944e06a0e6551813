package handlers

import (
  "net/http"
  "strconv"
  "time"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/shoplens/shoplens-backend/internal/analytics"
  "github.com/shoplens/shoplens-backend/internal/services"
)

type AnalyticsHandler struct {
  analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
  return &AnalyticsHandler{analyticsService: analyticsService}
}

func datasetID(c *gin.Context) (uuid.UUID, bool) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dataset id"})
    return uuid.Nil, false
  }
  return id, true
}

func intQuery(c *gin.Context, key string, fallback int) int {
  if raw := c.Query(key); raw != "" {
    if v, err := strconv.Atoi(raw); err == nil {
      return v
    }
  }
  return fallback
}

func (ah *AnalyticsHandler) BestSellers(c *gin.Context) {
  id, ok := datasetID(c)
  if !ok {
    return
  }
  params := analytics.BestSellerParams{
    Limit:  intQuery(c, "limit", 10),
    SortBy: c.DefaultQuery("sort_by", "quantity"),
    Period: c.Query("period"),
  }
  rows, err := ah.analyticsService.BestSellers(c.Request.Context(), id, params)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"best_sellers": rows})
}

func (ah *AnalyticsHandler) RevenueContribution(c *gin.Context) {
  id, ok := datasetID(c)
  if !ok {
    return
  }
  rows, err := ah.analyticsService.RevenueContribution(c.Request.Context(), id, intQuery(c, "limit", 0))
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"revenue_contribution": rows})
}

func (ah *AnalyticsHandler) Seasonality(c *gin.Context) {
  id, ok := datasetID(c)
  if !ok {
    return
  }
  rows, err := ah.analyticsService.Seasonality(c.Request.Context(), id)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"seasonality": rows})
}

func (ah *AnalyticsHandler) InventoryVelocity(c *gin.Context) {
  id, ok := datasetID(c)
  if !ok {
    return
  }
  rows, err := ah.analyticsService.InventoryVelocity(c.Request.Context(), id)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"inventory_velocity": rows})
}

func (ah *AnalyticsHandler) DeadStock(c *gin.Context) {
  id, ok := datasetID(c)
  if !ok {
    return
  }
  rows, err := ah.analyticsService.DeadStock(c.Request.Context(), id)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"dead_stock": rows})
}

func (ah *AnalyticsHandler) Profitability(c *gin.Context) {
  id, ok := datasetID(c)
  if !ok {
    return
  }
  rows, err := ah.analyticsService.Profitability(c.Request.Context(), id)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"profitability": rows})
}

func (ah *AnalyticsHandler) Trends(c *gin.Context) {
  id, ok := datasetID(c)
  if !ok {
    return
  }
  params := analytics.TrendParams{
    Metric: c.DefaultQuery("metric", "revenue"),
    Months: intQuery(c, "months", 12),
  }
  rows, err := ah.analyticsService.Trends(c.Request.Context(), id, params)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"trends": rows})
}

func (ah *AnalyticsHandler) DailySales(c *gin.Context) {
  id, ok := datasetID(c)
  if !ok {
    return
  }
  now := time.Now().UTC()
  year := intQuery(c, "year", now.Year())
  month := time.Month(intQuery(c, "month", int(now.Month())))
  if month < time.January || month > time.December {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
    return
  }
  rows, err := ah.analyticsService.DailySales(c.Request.Context(), id, year, month)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"daily_sales": rows})
}

func (ah *AnalyticsHandler) Forecast(c *gin.Context) {
  id, ok := datasetID(c)
  if !ok {
    return
  }
  rows, err := ah.analyticsService.Forecast(c.Request.Context(), id, intQuery(c, "days", 7), c.Query("product_id"))
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"forecast": rows})
}

func (ah *AnalyticsHandler) ForceRecompute(c *gin.Context) {
  id, ok := datasetID(c)
  if !ok {
    return
  }
  if err := ah.analyticsService.ForceRecompute(c.Request.Context(), id); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": "true"})
}
