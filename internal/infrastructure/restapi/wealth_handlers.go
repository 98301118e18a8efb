package restapi

import (
	"errors"
	"net/http"

	"wealth_aggregator/internal/app/port"
	"wealth_aggregator/internal/domain/entity"
	"wealth_aggregator/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIWealthResponse is the response envelope for the wealth endpoints.
type APIWealthResponse struct {
	Data struct {
		Wealths []*entity.WealthChain `json:"wealths"`
	} `json:"data"`
	StatusMessage string `json:"status_message"`
}

// WealthHandler handles HTTP requests for maker wealth aggregation.
type WealthHandler struct {
	wealthService port.WealthService
	logger        *zap.Logger
}

// NewWealthHandler creates a new WealthHandler.
func NewWealthHandler(ws port.WealthService, logger *zap.Logger) *WealthHandler {
	return &WealthHandler{
		wealthService: ws,
		logger:        logger.Named("WealthHandler"),
	}
}

// GetWealthHandler fetches and returns the aggregated wealth for one maker.
func (h *WealthHandler) GetWealthHandler(c *gin.Context) {
	makerAddress := c.Param("address")

	wealths, err := h.wealthService.FetchWealth(c.Request.Context(), makerAddress)
	if err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to fetch wealth", zap.String("makerAddress", makerAddress), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch wealth"})
		return
	}

	response := APIWealthResponse{StatusMessage: "Wealth retrieved successfully."}
	response.Data.Wealths = wealths
	if len(wealths) == 0 {
		response.StatusMessage = "No registry entries found for this maker."
	}
	c.JSON(http.StatusOK, response)
}

// CollectWealthHandler fetches the aggregated wealth for one maker and
// persists the resolved slots.
func (h *WealthHandler) CollectWealthHandler(c *gin.Context) {
	makerAddress := c.Param("address")

	wealths, err := h.wealthService.FetchWealth(c.Request.Context(), makerAddress)
	if err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to fetch wealth", zap.String("makerAddress", makerAddress), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch wealth"})
		return
	}

	if err := h.wealthService.PersistWealth(c.Request.Context(), wealths); err != nil {
		h.logger.Error("Failed to persist wealth", zap.String("makerAddress", makerAddress), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist wealth"})
		return
	}

	response := APIWealthResponse{StatusMessage: "Wealth collected and persisted."}
	response.Data.Wealths = wealths
	c.JSON(http.StatusOK, response)
}
