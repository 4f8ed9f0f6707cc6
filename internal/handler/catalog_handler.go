package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mergington/portal-gateway/internal/dto"
	"github.com/mergington/portal-gateway/internal/models"
	"github.com/mergington/portal-gateway/internal/service"
	appErrors "github.com/mergington/portal-gateway/pkg/errors"
	"github.com/mergington/portal-gateway/pkg/response"
)

type catalogService interface {
	Browse(ctx context.Context, sess *models.Session, state models.FilterState) (dto.CatalogView, error)
	Signup(ctx context.Context, sess *models.Session, activityName, email string) (string, error)
	Unregister(ctx context.Context, sess *models.Session, activityName, email string) (string, error)
}

type exportService interface {
	Catalog(ctx context.Context, sess *models.Session, state models.FilterState, fileFormat string) (*service.ExportFile, error)
}

// CatalogHandler wires the activity catalog and roster endpoints.
type CatalogHandler struct {
	catalog catalogService
	export  exportService
}

// NewCatalogHandler creates a new handler. export may be nil when the
// download endpoint is disabled.
func NewCatalogHandler(catalog catalogService, export exportService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, export: export}
}

// Browse godoc
// @Summary Browse the activity catalog
// @Tags Catalog
// @Produce json
// @Param category query string false "Category filter" Enums(all, sports, arts, academic, community, technology)
// @Param day query string false "Weekday filter"
// @Param time_range query string false "Time range" Enums(morning, afternoon, weekend)
// @Param search query string false "Free-text search"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /catalog [get]
func (h *CatalogHandler) Browse(c *gin.Context) {
	sess := sessionFromContext(c)
	state, err := filterStateFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	catalog, err := h.catalog.Browse(c.Request.Context(), sess, state)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, catalog)
}

// Export godoc
// @Summary Download the filtered catalog
// @Tags Catalog
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "File format" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /catalog/export [get]
func (h *CatalogHandler) Export(c *gin.Context) {
	if h.export == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "catalog export is disabled"))
		return
	}

	sess := sessionFromContext(c)
	state, err := filterStateFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.export.Catalog(c.Request.Context(), sess, state, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Signup godoc
// @Summary Register a student for an activity
// @Tags Catalog
// @Accept json
// @Produce json
// @Param name path string true "Activity name"
// @Param payload body dto.RosterRequest true "Student email"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /activities/{name}/signup [post]
func (h *CatalogHandler) Signup(c *gin.Context) {
	h.roster(c, h.catalog.Signup)
}

// Unregister godoc
// @Summary Remove a student from an activity
// @Tags Catalog
// @Accept json
// @Produce json
// @Param name path string true "Activity name"
// @Param payload body dto.RosterRequest true "Student email"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /activities/{name}/unregister [post]
func (h *CatalogHandler) Unregister(c *gin.Context) {
	h.roster(c, h.catalog.Unregister)
}

func (h *CatalogHandler) roster(c *gin.Context, action func(context.Context, *models.Session, string, string) (string, error)) {
	sess := sessionFromContext(c)

	var req dto.RosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "a valid student email is required"))
		return
	}

	message, err := action(c.Request.Context(), sess, c.Param("name"), req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": message})
}

var validTimeRanges = map[models.TimeRange]struct{}{
	models.TimeRangeAny:       {},
	models.TimeRangeMorning:   {},
	models.TimeRangeAfternoon: {},
	models.TimeRangeWeekend:   {},
}

var validCategories = map[models.Category]struct{}{
	models.CategoryAll:        {},
	models.CategorySports:     {},
	models.CategoryArts:       {},
	models.CategoryAcademic:   {},
	models.CategoryCommunity:  {},
	models.CategoryTechnology: {},
}

func filterStateFromQuery(c *gin.Context) (models.FilterState, error) {
	state := models.FilterState{
		Category:  models.Category(c.DefaultQuery("category", string(models.CategoryAll))),
		Day:       c.Query("day"),
		TimeRange: models.TimeRange(c.Query("time_range")),
		Query:     c.Query("search"),
	}

	if _, ok := validCategories[state.Category]; !ok {
		return state, appErrors.Clone(appErrors.ErrValidation, "unknown category")
	}
	if _, ok := validTimeRanges[state.TimeRange]; !ok {
		return state, appErrors.Clone(appErrors.ErrValidation, "unknown time range")
	}
	return state, nil
}
