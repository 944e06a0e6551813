package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/shoplens/shoplens-backend/internal/errs"
)

type APIError struct {
  Message     string	`json:"message"`
  Code	      string	`json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error	      APIError	`json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps the error taxonomy onto HTTP statuses. Anything
// unrecognized is a 500.
func RespondServiceError(c *gin.Context, err error) {
  switch {
  case errors.Is(err, errs.ErrNotFound):
    RespondError(c, http.StatusNotFound, "not_found", err)
  case errors.Is(err, errs.ErrInvalidArgument):
    RespondError(c, http.StatusBadRequest, "invalid_argument", err)
  case errors.Is(err, errs.ErrGeneratorUnavailable):
    RespondError(c, http.StatusServiceUnavailable, "generator_unavailable", err)
  default:
    RespondError(c, http.StatusInternalServerError, "internal", err)
  }
}
