package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/shoplens/shoplens-backend/internal/repos"
  "github.com/shoplens/shoplens-backend/internal/services"
)

type InsightHandler struct {
  insightService services.InsightService
}

func NewInsightHandler(insightService services.InsightService) *InsightHandler {
  return &InsightHandler{insightService: insightService}
}

func (ih *InsightHandler) Generate(c *gin.Context) {
  id, ok := datasetID(c)
  if !ok {
    return
  }
  rows, err := ih.insightService.Generate(c.Request.Context(), id)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"insights": rows})
}

func (ih *InsightHandler) List(c *gin.Context) {
  id, ok := datasetID(c)
  if !ok {
    return
  }
  filter := repos.InsightFilter{
    Category:   c.Query("category"),
    Confidence: c.Query("confidence"),
    ActiveOnly: c.DefaultQuery("active", "true") == "true",
  }
  rows, err := ih.insightService.List(c.Request.Context(), id, filter)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"insights": rows})
}
