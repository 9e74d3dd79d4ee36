package handlers

import (
	"errors"
	"net/http"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/catalog"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/comparison"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/format"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/monitoring"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/observability"
)

// ComparisonHandler handles product comparison requests.
type ComparisonHandler struct {
	logger       *observability.Logger
	materializer *comparison.Materializer
	audit        *monitoring.AuditLogger
}

// NewComparisonHandler creates a new comparison handler. audit may be nil.
func NewComparisonHandler(logger *observability.Logger, materializer *comparison.Materializer, audit *monitoring.AuditLogger) *ComparisonHandler {
	return &ComparisonHandler{
		logger:       logger,
		materializer: materializer,
		audit:        audit,
	}
}

// ComparisonRequestDTO represents the API request for comparison.
type ComparisonRequestDTO struct {
	PrimaryProductID   int `json:"primaryProductId" validate:"required,gt=0"`
	SecondaryProductID int `json:"secondaryProductId" validate:"required,gt=0,nefield=PrimaryProductID"`
}

// ComparisonResponseDTO represents the API response for comparison.
type ComparisonResponseDTO struct {
	PrimaryProductID   int          `json:"primaryProductId"`
	SecondaryProductID int          `json:"secondaryProductId"`
	Rows               []format.Row `json:"rows"`
	Table              string       `json:"table"`
	Hash               string       `json:"hash"`
}

// Query handles POST /comparisons.
func (h *ComparisonHandler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ComparisonRequestDTO
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.logger.WithContext(ctx).Info().
		Int("primary_product", req.PrimaryProductID).
		Int("secondary_product", req.SecondaryProductID).
		Msg("Processing comparison query")

	result, err := h.materializer.Compare(ctx, req.PrimaryProductID, req.SecondaryProductID)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "product not found", err.Error())
		return
	case errors.Is(err, comparison.ErrSameProduct):
		writeError(w, http.StatusBadRequest, "invalid comparison", err.Error())
		return
	case err != nil:
		h.logger.WithContext(ctx).Error().Err(err).Msg("Comparison failed")
		writeError(w, http.StatusInternalServerError, "comparison failed", "")
		return
	}

	if h.audit != nil {
		if err := h.audit.LogComparison(ctx, req.PrimaryProductID, req.SecondaryProductID, len(result.Rows)); err != nil {
			h.logger.WithContext(ctx).Warn().Err(err).Msg("Failed to record comparison audit event")
		}
	}

	writeJSON(w, http.StatusOK, ComparisonResponseDTO{
		PrimaryProductID:   result.Primary.ID,
		SecondaryProductID: result.Secondary.ID,
		Rows:               result.Rows,
		Table:              result.Table,
		Hash:               result.Hash,
	})
}
