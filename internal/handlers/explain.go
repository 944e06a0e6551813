package handlers

import (
  "errors"
  "github.com/gin-gonic/gin"
  "github.com/shoplens/shoplens-backend/internal/errs"
  "github.com/shoplens/shoplens-backend/internal/services"
)

type ExplainHandler struct {
  explainService services.ExplainService
}

func NewExplainHandler(explainService services.ExplainService) *ExplainHandler {
  return &ExplainHandler{explainService: explainService}
}

// Explain returns validated prose for a dataset's active insights. A failed
// validation retry is not an HTTP error: insights stay available, the
// explanation is just reported as unavailable.
func (eh *ExplainHandler) Explain(c *gin.Context) {
  id, ok := datasetID(c)
  if !ok {
    return
  }
  text, err := eh.explainService.ExplainDataset(c.Request.Context(), id)
  if err != nil {
    // Degraded outcomes, not failures: insights stay available, only the
    // prose is missing.
    if errors.Is(err, errs.ErrExplanationUnavailable) || errors.Is(err, errs.ErrInsufficientData) {
      RespondOK(c, gin.H{"available": false, "explanation": nil})
      return
    }
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"available": true, "explanation": text})
}
