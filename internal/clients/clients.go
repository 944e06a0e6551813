// Package clients constructs the external provider clients.
package clients

import (
	"fmt"
	"strings"

	"github.com/shoplens/shoplens-backend/internal/clients/anthropic"
	"github.com/shoplens/shoplens-backend/internal/clients/openai"
	"github.com/shoplens/shoplens-backend/internal/explain"
	"github.com/shoplens/shoplens-backend/internal/logger"
	"github.com/shoplens/shoplens-backend/internal/utils"
)

// NewGenerator selects the explanation provider by EXPLAIN_PROVIDER:
// "openai" (default), "anthropic", or "none" to run without explanations.
func NewGenerator(log *logger.Logger) (explain.Generator, error) {
	provider := strings.ToLower(utils.GetEnv("EXPLAIN_PROVIDER", "openai", log))
	switch provider {
	case "openai":
		return openai.NewClient(log)
	case "anthropic":
		return anthropic.NewClient(log)
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown EXPLAIN_PROVIDER %q", provider)
	}
}
