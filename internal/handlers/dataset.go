package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/shoplens/shoplens-backend/internal/jobs"
  "github.com/shoplens/shoplens-backend/internal/services"
  "github.com/shoplens/shoplens-backend/internal/types"
)

type DatasetHandler struct {
  datasetService   services.DatasetService
  analyticsService services.AnalyticsService
  pool             *jobs.Pool
}

func NewDatasetHandler(datasetService services.DatasetService, analyticsService services.AnalyticsService, pool *jobs.Pool) *DatasetHandler {
  return &DatasetHandler{
    datasetService:   datasetService,
    analyticsService: analyticsService,
    pool:             pool,
  }
}

func (dh *DatasetHandler) Create(c *gin.Context) {
  var req struct {
    Name    string    `json:"name"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  ds, err := dh.datasetService.Create(c.Request.Context(), req.Name)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  c.JSON(http.StatusCreated, ds)
}

func (dh *DatasetHandler) List(c *gin.Context) {
  datasets, err := dh.datasetService.List(c.Request.Context())
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"datasets": datasets})
}

func (dh *DatasetHandler) Get(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dataset id"})
    return
  }
  ds, err := dh.datasetService.Get(c.Request.Context(), id)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, ds)
}

func (dh *DatasetHandler) Ingest(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dataset id"})
    return
  }
  var req struct {
    Sales       []types.RawSale        `json:"sales"`
    Inventory   []types.RawInventory   `json:"inventory"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  ds, changed, err := dh.datasetService.Ingest(c.Request.Context(), id, req.Sales, req.Inventory)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  if changed && dh.pool != nil {
    for _, warm := range services.WarmRequests(dh.analyticsService, id) {
      dh.pool.Enqueue(warm)
    }
  }
  RespondOK(c, gin.H{"dataset": ds, "changed": changed})
}

func (dh *DatasetHandler) Delete(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dataset id"})
    return
  }
  if err := dh.datasetService.Delete(c.Request.Context(), id); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": "true"})
}
