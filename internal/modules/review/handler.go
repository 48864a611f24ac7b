package review

import (
	"errors"
	"net/http"
	"strconv"

	"tourbook/internal/domain"
	"tourbook/internal/pkg/response"
	"tourbook/internal/pkg/validator"
	"tourbook/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	if public != nil {
		public.GET("/targets/:type/:id/reviews", h.ListByTarget)
	}

	if protected != nil {
		protected.POST("/reviews", h.Create)
		protected.GET("/reviews/eligibility", h.Eligibility)
		protected.GET("/reviews/:id", h.GetByID)
		protected.PUT("/reviews/:id", h.Update)
		protected.DELETE("/reviews/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if fields := validator.Validate(req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR",
			"Rating must be 1-5 and the comment at least 10 characters", fields)
		return
	}

	callerID, ok := caller(c)
	if !ok {
		return
	}

	rv, err := h.svc.Create(c.Request.Context(), callerID, req)
	if err != nil {
		if errors.Is(err, ErrDuplicateReview) {
			// same answer as the eligibility check: point the client at the
			// existing review so it can offer edit instead of create
			check, cerr := h.svc.CanCreate(c.Request.Context(), callerID, domain.TargetType(req.TargetType), req.TargetID, req.BookingID)
			existingID := ""
			if cerr == nil && check != nil {
				existingID = check.ExistingReviewID
			}
			response.ErrorWithDetails(c, http.StatusConflict, "DUPLICATE_REVIEW",
				"You have already reviewed this booking. Edit your existing review instead.",
				gin.H{"existing_review_id": existingID})
			return
		}
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, rv)
}

func (h *Handler) Eligibility(c *gin.Context) {
	callerID, ok := caller(c)
	if !ok {
		return
	}

	targetType := c.Query("target_type")
	targetID, err := strconv.ParseInt(c.Query("target_id"), 10, 64)
	if err != nil || targetID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid target ID")
		return
	}

	var bookingID *int64
	if raw := c.Query("booking_id"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v <= 0 {
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid booking ID")
			return
		}
		bookingID = &v
	}

	check, err := h.svc.CanCreate(c.Request.Context(), callerID, domain.TargetType(targetType), targetID, bookingID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, check)
}

func (h *Handler) GetByID(c *gin.Context) {
	rv, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rv)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if fields := validator.Validate(req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR",
			"Rating must be 1-5 and the comment at least 10 characters", fields)
		return
	}

	callerID, ok := caller(c)
	if !ok {
		return
	}

	rv, err := h.svc.Update(c.Request.Context(), callerID, isAdmin(c), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, rv)
}

func (h *Handler) Delete(c *gin.Context) {
	callerID, ok := caller(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), callerID, isAdmin(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) ListByTarget(c *gin.Context) {
	targetType := domain.TargetType(c.Param("type"))
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || targetID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid target ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	sort := repository.ReviewSort(c.DefaultQuery("sort", "newest"))

	result, err := h.svc.ListByTarget(c.Request.Context(), targetType, targetID, page, pageSize, sort)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownTargetType):
		response.Error(c, http.StatusBadRequest, "UNKNOWN_TARGET_TYPE", "Unknown target type")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Rating must be 1-5 and the comment at least 10 characters")
	case errors.Is(err, ErrImmutableField):
		response.Error(c, http.StatusBadRequest, "IMMUTABLE_FIELD", "Author, target and booking of a review cannot be changed")
	case errors.Is(err, ErrTargetMismatch):
		response.Error(c, http.StatusBadRequest, "TARGET_MISMATCH", "This booking is for a different target")
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrReviewNotFound):
		response.Error(c, http.StatusNotFound, "REVIEW_NOT_FOUND", "Review not found")
	case errors.Is(err, ErrBookingNotOwned):
		response.Error(c, http.StatusForbidden, "BOOKING_NOT_OWNED", "You can only review your own bookings")
	case errors.Is(err, ErrNotEligible):
		response.Error(c, http.StatusForbidden, "NOT_ELIGIBLE", "You can only review bookings you completed and paid for")
	case errors.Is(err, ErrNotOwner):
		response.Error(c, http.StatusForbidden, "NOT_OWNER", "Only the review's author can change it")
	case errors.Is(err, ErrDuplicateReview):
		response.Error(c, http.StatusConflict, "DUPLICATE_REVIEW", "You have already reviewed this booking. Edit your existing review instead.")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
	}
}

func caller(c *gin.Context) (int64, bool) {
	callerID := c.GetInt64("user_id")
	if callerID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return 0, false
	}
	return callerID, true
}

func isAdmin(c *gin.Context) bool {
	return c.GetString("role") == string(domain.RoleAdmin)
}
