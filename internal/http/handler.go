package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/assembly-service/internal/domain/dto"
	"github.com/guttosm/assembly-service/internal/domain/model"
	"github.com/guttosm/assembly-service/internal/i18n"
	"github.com/guttosm/assembly-service/internal/service"
)

// boxCache provides thread-safe caching of the active box catalog.
type boxCache struct {
	boxes     atomic.Value // holds []model.BoxDefinition
	expiresAt atomic.Value // holds time.Time
	mu        sync.Mutex
	ttl       time.Duration
}

// newBoxCache creates a new box cache with the given TTL.
func newBoxCache(ttl time.Duration) *boxCache {
	c := &boxCache{ttl: ttl}
	c.expiresAt.Store(time.Time{})
	return c
}

// get returns cached boxes if valid, or nil if cache is expired/empty.
func (c *boxCache) get() []model.BoxDefinition {
	if exp := c.expiresAt.Load(); exp != nil {
		if expiresAt, ok := exp.(time.Time); ok && time.Now().Before(expiresAt) {
			if boxes := c.boxes.Load(); boxes != nil {
				if b, ok := boxes.([]model.BoxDefinition); ok {
					return b
				}
			}
		}
	}
	return nil
}

// set stores boxes in the cache with TTL.
func (c *boxCache) set(boxes []model.BoxDefinition) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring lock
	if exp := c.expiresAt.Load(); exp != nil {
		if expiresAt, ok := exp.(time.Time); ok && time.Now().Before(expiresAt) {
			return // Already cached by another goroutine
		}
	}

	c.boxes.Store(boxes)
	c.expiresAt.Store(time.Now().Add(c.ttl))
}

// invalidate clears the cache.
func (c *boxCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expiresAt.Store(time.Time{})
}

// Handler provides HTTP handlers for assembly session and planning routes.
type Handler struct {
	sessions    service.SessionService
	planner     service.BoxPlanner
	boxService  service.BoxService
	eventLog    service.EventLogService
	eventWriter *service.AsyncEventWriter
	boxCache    *boxCache
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithBoxCacheTTL sets the TTL for box catalog caching.
func WithBoxCacheTTL(ttl time.Duration) HandlerOption {
	return func(h *Handler) {
		h.boxCache = newBoxCache(ttl)
	}
}

// WithEventLog wires the persisted event feed.
func WithEventLog(eventLog service.EventLogService, writer *service.AsyncEventWriter) HandlerOption {
	return func(h *Handler) {
		h.eventLog = eventLog
		h.eventWriter = writer
	}
}

// NewHandler creates a new Handler instance.
func NewHandler(sessions service.SessionService, planner service.BoxPlanner, boxService service.BoxService, opts ...HandlerOption) *Handler {
	h := &Handler{
		sessions:   sessions,
		planner:    planner,
		boxService: boxService,
		boxCache:   newBoxCache(30 * time.Second), // Default 30s cache
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// getBoxes retrieves the active box catalog from cache or database.
func (h *Handler) getBoxes(ctx context.Context) []model.BoxDefinition {
	// Check cache first
	if boxes := h.boxCache.get(); boxes != nil {
		return boxes
	}

	// Cache miss - fetch from database
	if h.boxService == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	boxes, err := h.boxService.ListActive(ctx)
	if err != nil || len(boxes) == 0 {
		return nil
	}

	h.boxCache.set(boxes)
	return boxes
}

// InvalidateBoxCache invalidates the cached box catalog.
// Call this when box definitions are updated.
func (h *Handler) InvalidateBoxCache() {
	h.boxCache.invalidate()
}

// publishEvents hands session notifications to the async persister and
// returns them for the response body.
func (h *Handler) publishEvents(session *service.AssemblySession) []model.Event {
	events := session.DrainEvents()
	if h.eventWriter != nil {
		for i := range events {
			h.eventWriter.Publish(&events[i])
		}
	}
	return events
}

// sessionResponse is the session detail payload shared by create/get.
type sessionResponse struct {
	SessionID  string                 `json:"session_id"`
	Checklist  []model.ChecklistItem  `json:"checklist"`
	Version    uint64                 `json:"version"`
	ActiveBox  int                    `json:"active_box"`
	Completed  bool                   `json:"completed"`
	Plan       model.BoxPlan          `json:"plan"`
	Allocation model.AllocationResult `json:"allocation"`
}

func newSessionResponse(session *service.AssemblySession) sessionResponse {
	checklist, version := session.Checklist()
	return sessionResponse{
		SessionID:  session.ID,
		Checklist:  checklist,
		Version:    version,
		ActiveBox:  session.ActiveBox(),
		Completed:  session.Completed(),
		Plan:       session.Plan(),
		Allocation: session.Allocation(),
	}
}

// CreateSession handles POST /api/sessions requests.
//
// @Summary      Create assembly session
// @Description  Expands the order's kits into atomic items, plans boxes, distributes the items across them and builds the initial checklist. A packing failure (no box plan, or portions no box had room for) is returned as structured data with a 422 status, not as an opaque error.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.CreateSessionRequest true "Order lines and plan mode"
// @Success      201 {object} dto.SuccessResponse "Session created"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      422 {object} dto.ErrorResponse "Packing infeasible for this order"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/sessions [post]
func (h *Handler) CreateSession(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	mode, err := req.Validate()
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	result, err := h.sessions.Create(c.Request.Context(), req.Lines, mode)
	if err != nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}

	if result.Infeasible {
		key := i18n.ErrKeyPackingInfeasible
		if len(result.Allocation.Unallocated) > 0 {
			key = i18n.ErrKeyUnallocatedPortions
		}
		event := model.Event{
			Kind:      model.EventPackingInfeasible,
			Reason:    key,
			Timestamp: time.Now(),
		}
		if h.eventWriter != nil {
			h.eventWriter.Publish(&event)
		}
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error":      dto.ErrCodePackingInfeasible,
			"message":    i18n.GetTranslator().Translate(key, i18n.GetLocale(c)),
			"plan":       result.Plan,
			"allocation": result.Allocation,
			"expansion":  result.Expansion,
			"events":     []model.Event{event},
		})
		return
	}

	builder.SuccessCreated(gin.H{
		"session":   newSessionResponse(result.Session),
		"expansion": result.Expansion,
	})
}

// GetSession handles GET /api/sessions/:id requests.
//
// @Summary      Get assembly session
// @Description  Returns the current checklist snapshot, its version, the active box and the plan the session was built from.
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.SuccessResponse "Session state"
// @Failure      404 {object} dto.ErrorResponse "Session not found"
// @Router       /api/sessions/{id} [get]
func (h *Handler) GetSession(c *gin.Context) {
	builder := NewResponseBuilder(c)

	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		builder.Error(http.StatusNotFound, i18n.ErrKeyNotFound, err)
		return
	}

	builder.SuccessOK(newSessionResponse(session))
}

// DeleteSession handles DELETE /api/sessions/:id requests.
//
// @Summary      Delete assembly session
// @Description  Closes the session, cancelling its pending timers, and removes it.
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.SuccessResponse "Session deleted"
// @Failure      404 {object} dto.ErrorResponse "Session not found"
// @Router       /api/sessions/{id} [delete]
func (h *Handler) DeleteSession(c *gin.Context) {
	builder := NewResponseBuilder(c)

	id := c.Param("id")
	if err := h.sessions.Delete(id); err != nil {
		builder.Error(http.StatusNotFound, i18n.ErrKeyNotFound, err)
		return
	}

	builder.SuccessOK(gin.H{"session_id": id})
}

// Scan handles POST /api/sessions/:id/scans requests.
//
// @Summary      Route a scan event
// @Description  Routes one decoded barcode against the session's checklist and active box. Rejections never change state; the outcome carries an operator-facing reason key.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body dto.ScanRequest true "Decoded barcode"
// @Success      200 {object} dto.SuccessResponse "Scan outcome"
// @Failure      400 {object} dto.ErrorResponse "Bad request"
// @Failure      404 {object} dto.ErrorResponse "Session not found"
// @Router       /api/sessions/{id}/scans [post]
func (h *Handler) Scan(c *gin.Context) {
	builder := NewResponseBuilder(c)

	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		builder.Error(http.StatusNotFound, i18n.ErrKeyNotFound, err)
		return
	}

	var req dto.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	result := session.HandleScan(req.Code)
	events := h.publishEvents(session)

	builder.SuccessOK(gin.H{
		"result": result,
		"events": events,
	})
}

// Weight handles POST /api/sessions/:id/weights requests.
//
// @Summary      Feed a weight sample
// @Description  Feeds one raw scale frame through the signal classifier and, for a stable reading, scores it against the row under verification.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body dto.WeightSampleRequest true "Raw scale frame"
// @Success      200 {object} dto.SuccessResponse "Classification and weight check"
// @Failure      400 {object} dto.ErrorResponse "Bad request"
// @Failure      404 {object} dto.ErrorResponse "Session not found"
// @Router       /api/sessions/{id}/weights [post]
func (h *Handler) Weight(c *gin.Context) {
	builder := NewResponseBuilder(c)

	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		builder.Error(http.StatusNotFound, i18n.ErrKeyNotFound, err)
		return
	}

	var req dto.WeightSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	timestamp := time.Now()
	if req.Timestamp != nil {
		timestamp = *req.Timestamp
	}
	sample := &service.ScaleSample{
		Weight:    req.Weight,
		Raw:       []byte(req.Raw),
		Timestamp: timestamp,
	}

	outcome := session.HandleWeight(sample, req.Connected)
	events := h.publishEvents(session)

	builder.SuccessOK(gin.H{
		"outcome": outcome,
		"events":  events,
	})
}

// Reset handles POST /api/sessions/:id/reset requests.
//
// @Summary      Reset assembly session
// @Description  Cancels pending timers, clears classifier and cooldown state and reverts all unfinished rows to default. Completed rows are kept.
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.SuccessResponse "Session state after reset"
// @Failure      404 {object} dto.ErrorResponse "Session not found"
// @Router       /api/sessions/{id}/reset [post]
func (h *Handler) Reset(c *gin.Context) {
	builder := NewResponseBuilder(c)

	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		builder.Error(http.StatusNotFound, i18n.ErrKeyNotFound, err)
		return
	}

	session.Reset()
	builder.SuccessOK(newSessionResponse(session))
}

// SetActiveBox handles PUT /api/sessions/:id/active-box requests.
//
// @Summary      Set active box
// @Description  Switches the box scans and weight samples are routed against.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body dto.SetActiveBoxRequest true "Box index"
// @Success      200 {object} dto.SuccessResponse "Active box updated"
// @Failure      400 {object} dto.ErrorResponse "Bad request or unknown box index"
// @Failure      404 {object} dto.ErrorResponse "Session not found"
// @Router       /api/sessions/{id}/active-box [put]
func (h *Handler) SetActiveBox(c *gin.Context) {
	builder := NewResponseBuilder(c)

	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		builder.Error(http.StatusNotFound, i18n.ErrKeyNotFound, err)
		return
	}

	var req dto.SetActiveBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.BoxIndex == nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	if err := session.SetActiveBox(*req.BoxIndex); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	builder.SuccessOK(gin.H{"active_box": session.ActiveBox()})
}

// SessionEvents handles GET /api/sessions/:id/events requests.
//
// @Summary      List session events
// @Description  Returns the persisted notification events for a session, newest first.
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        limit query int false "Limit number of results"
// @Success      200 {object} dto.SuccessResponse "Session events"
// @Failure      404 {object} dto.ErrorResponse "Session not found or event feed disabled"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/sessions/{id}/events [get]
func (h *Handler) SessionEvents(c *gin.Context) {
	builder := NewResponseBuilder(c)

	if h.eventLog == nil {
		builder.Error(http.StatusNotFound, i18n.ErrKeyNotFound, nil)
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	events, err := h.eventLog.QueryEvents(c.Request.Context(), model.EventQueryOptions{
		SessionID: c.Param("id"),
		Limit:     limit,
	})
	if err != nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}

	builder.SuccessOK(events)
}

// PlanBoxes handles POST /api/packs/plan requests.
//
// @Summary      Plan boxes for a portion count
// @Description  Runs the box planner against the active box catalog without creating a session. An infeasible count returns the structured no-solution plan.
// @Tags         Packs
// @Accept       json
// @Produce      json
// @Param        request body dto.PlanBoxesRequest true "Portions and plan mode"
// @Success      200 {object} dto.SuccessResponse "Box plan"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/packs/plan [post]
func (h *Handler) PlanBoxes(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.PlanBoxesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	mode, err := req.Validate()
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	boxes := h.getBoxes(c.Request.Context())
	plan := h.planner.Plan(req.Portions, boxes, mode)
	builder.SuccessOK(plan)
}
