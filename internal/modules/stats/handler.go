package stats

import (
	"errors"
	"net/http"
	"strconv"

	"tourbook/internal/domain"
	"tourbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public *gin.RouterGroup) {
	if public != nil {
		public.GET("/targets/:type/:id/statistics", h.GetStatistics)
		public.GET("/targets/:type/:id/statistics/snapshot", h.GetSnapshot)
	}
}

func (h *Handler) GetStatistics(c *gin.Context) {
	targetType := domain.TargetType(c.Param("type"))
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || targetID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid target ID")
		return
	}

	recentN, _ := strconv.Atoi(c.DefaultQuery("page_size", "5"))

	stats, err := h.svc.GetStatistics(c.Request.Context(), targetType, targetID, recentN)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownTargetType) {
			response.Error(c, http.StatusBadRequest, "UNKNOWN_TARGET_TYPE", "Unknown target type")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) GetSnapshot(c *gin.Context) {
	targetType := domain.TargetType(c.Param("type"))
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || targetID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid target ID")
		return
	}

	snap, err := h.svc.GetSnapshot(c.Request.Context(), targetType, targetID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownTargetType) {
			response.Error(c, http.StatusBadRequest, "UNKNOWN_TARGET_TYPE", "Unknown target type")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	response.Success(c, http.StatusOK, snap)
}
