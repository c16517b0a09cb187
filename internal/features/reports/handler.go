package reports

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/streetpulse/streetpulse/internal/pkg/response"
	apperrors "github.com/streetpulse/streetpulse/pkg/errors"
)

// maxImageBytes caps how much of the uploaded image is read
const maxImageBytes = 10 * 1024 * 1024

type Handler struct {
	service *Service
	store   Store
}

func NewHandler(service *Service, store Store) *Handler {
	return &Handler{service: service, store: store}
}

// @Summary Submit a street-issue report
// @Description Classifies the image, routes the issue to an authority, scores its priority, and persists the report
// @Tags reports
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Photo of the issue"
// @Param longitude formData number true "Longitude"
// @Param latitude formData number true "Latitude"
// @Param description formData string false "Free-text description"
// @Param issue_type formData string false "User-supplied issue type, overrides the classifier"
// @Success 201 {object} response.SuccessResponse{data=SubmitResponse}
// @Failure 400 {object} response.ErrorResponse
// @Router /reports [post]
func (h *Handler) Submit(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.BadRequest(c, "Image is required", "MISSING_IMAGE")
		return
	}
	defer file.Close()

	lon, lat, err := parseCoordinates(c.PostForm("longitude"), c.PostForm("latitude"))
	if err != nil {
		response.BadRequest(c, "Longitude and latitude must be valid coordinates", "INVALID_COORDINATES")
		return
	}

	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		response.BadRequest(c, "Failed to read image", "INVALID_IMAGE")
		return
	}

	sub := Submission{
		Image:       image,
		ImageName:   header.Filename,
		Longitude:   lon,
		Latitude:    lat,
		Description: c.PostForm("description"),
		UserLabel:   c.PostForm("issue_type"),
		UserID:      userIDFromContext(c),
	}

	report, err := h.service.Submit(c.Request.Context(), sub)
	if err != nil {
		if errors.Is(err, apperrors.ErrStoreUnavailable) {
			response.DatabaseError(c, "Failed to persist report")
			return
		}
		response.InternalServerError(c, "Failed to process report", "SUBMIT_FAILED")
		return
	}

	response.Created(c, SubmitResponse{
		ID:              report.ID.Hex(),
		IssueType:       report.IssueType,
		Severity:        string(report.Severity),
		PriorityScore:   report.PriorityScore,
		TargetAuthority: report.ToView().TargetAuthority,
		Status:          report.Status,
	})
}

// @Summary List reports
// @Description Reports sorted by priority score descending, optionally filtered by authority and status
// @Tags reports
// @Produce json
// @Param authority query string false "Authority code (e.g. GHMC)"
// @Param status query string false "Lifecycle status"
// @Success 200 {object} response.SuccessResponse{data=[]View}
// @Router /reports [get]
func (h *Handler) List(c *gin.Context) {
	views, err := h.service.List(c.Request.Context(), c.Query("authority"), c.Query("status"))
	if err != nil {
		response.DatabaseError(c, "Failed to fetch reports")
		return
	}

	response.Success(c, views)
}

// @Summary Get a report by id
// @Tags reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.SuccessResponse{data=View}
// @Failure 404 {object} response.ErrorResponse
// @Router /reports/{id} [get]
func (h *Handler) GetByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid report ID", "INVALID_ID")
		return
	}

	report, err := h.store.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Report not found", "NOT_FOUND")
			return
		}
		response.DatabaseError(c, "Failed to fetch report")
		return
	}

	response.Success(c, report.ToView())
}

// @Summary Update a report's lifecycle status
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} response.SuccessResponse{data=View}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reports/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid report ID", "INVALID_ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request", "INVALID_JSON")
		return
	}
	if !isValidStatus(req.Status) {
		response.BadRequest(c, "Unknown status", "INVALID_STATUS")
		return
	}

	report, err := h.store.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Report not found", "NOT_FOUND")
			return
		}
		response.DatabaseError(c, "Failed to update report")
		return
	}

	response.Success(c, report.ToView())
}

// @Summary Overall report statistics
// @Tags reports
// @Produce json
// @Success 200 {object} response.SuccessResponse{data=Stats}
// @Router /stats [get]
func (h *Handler) OverallStats(c *gin.Context) {
	stats, err := h.service.OverallStats(c.Request.Context())
	if err != nil {
		response.DatabaseError(c, "Failed to compute stats")
		return
	}

	response.Success(c, stats)
}

// @Summary Statistics for the caller's own reports
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=Stats}
// @Router /users/me/stats [get]
func (h *Handler) UserStats(c *gin.Context) {
	userID := userIDFromContext(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required", "AUTH_FAILED")
		return
	}

	stats, err := h.service.UserStats(c.Request.Context(), *userID)
	if err != nil {
		response.DatabaseError(c, "Failed to compute stats")
		return
	}

	response.Success(c, stats)
}

// userIDFromContext reads the id set by the auth middleware, if any
func userIDFromContext(c *gin.Context) *primitive.ObjectID {
	raw := c.GetString("userID")
	if raw == "" {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil
	}
	return &id
}
