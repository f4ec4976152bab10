package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/assembly-service/internal/domain/dto"
	"github.com/guttosm/assembly-service/internal/service"
)

// BoxesHandler provides HTTP handlers for box catalog routes.
type BoxesHandler struct {
	boxService service.BoxService
	handler    *Handler
}

// NewBoxesHandler creates a new BoxesHandler instance.
func NewBoxesHandler(boxService service.BoxService, handler *Handler) *BoxesHandler {
	return &BoxesHandler{
		boxService: boxService,
		handler:    handler,
	}
}

// ListActiveBoxes handles GET /api/boxes requests.
//
// @Summary      List active boxes
// @Description  Returns the active box catalog entries, sorted by nominal capacity
// @Tags         Boxes
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.SuccessResponse "Active box definitions"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/boxes [get]
func (h *BoxesHandler) ListActiveBoxes(c *gin.Context) {
	builder := NewResponseBuilder(c)

	boxes, err := h.boxService.ListActive(c.Request.Context())
	if err != nil {
		builder.Error(http.StatusInternalServerError, dto.ErrCodeInternal, err)
		return
	}

	builder.SuccessOK(boxes)
}

// CreateBox handles POST /api/boxes requests.
//
// @Summary      Create box definition
// @Description  Adds a new active box definition to the catalog
// @Tags         Boxes
// @Accept       json
// @Produce      json
// @Param        request body dto.BoxDefinitionRequest true "Box definition"
// @Success      201 {object} dto.SuccessResponse "Created box definition"
// @Failure      400 {object} dto.ErrorResponse "Bad request"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/boxes [post]
func (h *BoxesHandler) CreateBox(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.BoxDefinitionRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, dto.ErrCodeInvalidRequest, err)
		return
	}

	config, err := h.boxService.Create(c.Request.Context(), req.ToModel())
	if err != nil {
		builder.Error(http.StatusInternalServerError, dto.ErrCodeInternal, err)
		return
	}

	if h.handler != nil {
		h.handler.InvalidateBoxCache()
	}

	builder.SuccessCreated(config)
}

// UpdateBox handles PUT /api/boxes/:id requests.
//
// @Summary      Update box definition
// @Description  Replaces a box definition and bumps its version; can also deactivate the entry
// @Tags         Boxes
// @Accept       json
// @Produce      json
// @Param        id path string true "Box config ID"
// @Param        request body dto.BoxDefinitionRequest true "Box definition"
// @Success      200 {object} dto.SuccessResponse "Updated box definition"
// @Failure      400 {object} dto.ErrorResponse "Bad request"
// @Failure      404 {object} dto.ErrorResponse "Box config not found"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/boxes/{id} [put]
func (h *BoxesHandler) UpdateBox(c *gin.Context) {
	builder := NewResponseBuilder(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		builder.Error(http.StatusBadRequest, dto.ErrCodeInvalidRequest, err)
		return
	}

	req, err := BuildRequestAndValidate[dto.BoxDefinitionRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, dto.ErrCodeInvalidRequest, err)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	config, err := h.boxService.Update(c.Request.Context(), id, req.ToModel(), active)
	if err != nil {
		builder.Error(http.StatusInternalServerError, dto.ErrCodeInternal, err)
		return
	}

	if h.handler != nil {
		h.handler.InvalidateBoxCache()
	}

	builder.SuccessOK(config)
}

// ListBoxHistory handles GET /api/boxes/history requests.
//
// @Summary      List box catalog history
// @Description  Returns all box definition documents (including inactive), newest first
// @Tags         Boxes
// @Accept       json
// @Produce      json
// @Param        limit query int false "Limit number of results"
// @Success      200 {object} dto.SuccessResponse "Box catalog history"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/boxes/history [get]
func (h *BoxesHandler) ListBoxHistory(c *gin.Context) {
	builder := NewResponseBuilder(c)

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	configs, err := h.boxService.List(c.Request.Context(), limit)
	if err != nil {
		builder.Error(http.StatusInternalServerError, dto.ErrCodeInternal, err)
		return
	}

	builder.SuccessOK(configs)
}
