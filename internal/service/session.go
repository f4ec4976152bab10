package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/assembly-service/internal/domain/model"
	"github.com/guttosm/assembly-service/internal/i18n"
	"github.com/guttosm/assembly-service/internal/metrics"
)

// ErrSessionNotFound is returned when a session id does not exist.
var ErrSessionNotFound = errors.New("assembly session not found")

// errScanRejected aborts a checklist update without changing state.
var errScanRejected = errors.New("scan rejected")

// maxRetainedEvents bounds the per-session notification ring.
const maxRetainedEvents = 100

// SessionConfig carries the tunable engine parameters for one session.
type SessionConfig struct {
	SettleDelay         time.Duration
	RetryDelay          time.Duration
	ScanCooldown        time.Duration
	DisableScanCooldown bool
	Tolerance           model.ToleranceSettings
	SpikeThreshold      float64
	SampleCacheDuration time.Duration
	PollInterval        time.Duration
}

// DefaultSessionConfig returns the engine defaults.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		SettleDelay:         DefaultSettleDelay,
		RetryDelay:          DefaultRetryDelay,
		ScanCooldown:        DefaultScanCooldown,
		Tolerance:           model.DefaultToleranceSettings(),
		SpikeThreshold:      DefaultSpikeThreshold,
		SampleCacheDuration: DefaultSampleCacheDuration,
		PollInterval:        DefaultPollInterval,
	}
}

// WeightOutcome is the combined result of feeding one raw scale sample:
// the classifier's verdict, and the weight check when the sample was stable.
type WeightOutcome struct {
	Classification Classification `json:"classification"`
	Check          *WeightCheck   `json:"check,omitempty"`
}

// AssemblySession owns the state of one order-assembly workflow: the
// versioned checklist, the active box, the scan cooldown, the signal
// classifier state and the settle/retry timers. Scan events, weight events
// and timer callbacks are serialized through one mutex, and each mutation is
// a whole-checklist compare-and-swap.
type AssemblySession struct {
	ID string

	store      *ChecklistStore
	router     *ScanRouter
	validator  *WeightValidator
	classifier *SignalClassifierService
	timers     *TimerRegistry
	clock      Clock
	cfg        SessionConfig

	plan       model.BoxPlan
	allocation model.AllocationResult
	expansion  ExpansionResult

	mu        sync.Mutex
	activeBox int
	events    []model.Event
	completed bool
	// generation invalidates timer callbacks armed before the last reset.
	generation uint64
}

// NewAssemblySession creates a session over an already-built checklist.
func NewAssemblySession(
	id string,
	items []model.ChecklistItem,
	plan model.BoxPlan,
	allocation model.AllocationResult,
	expansion ExpansionResult,
	clock Clock,
	cfg SessionConfig,
) *AssemblySession {
	routerOpts := []ScanRouterOption{WithScanCooldown(cfg.ScanCooldown)}
	if cfg.DisableScanCooldown {
		routerOpts = append(routerOpts, WithoutScanCooldown())
	}

	return &AssemblySession{
		ID:         id,
		store:      NewChecklistStore(items),
		router:     NewScanRouter(clock, routerOpts...),
		validator:  NewWeightValidator(cfg.Tolerance),
		classifier: NewSignalClassifierService(clock,
			WithStaleness(cfg.SampleCacheDuration, cfg.PollInterval),
			WithSpikeThreshold(cfg.SpikeThreshold)),
		timers:     NewTimerRegistry(clock),
		clock:      clock,
		cfg:        cfg,
		plan:       plan,
		allocation: allocation,
		expansion:  expansion,
	}
}

// Checklist returns a copy of the current checklist and its version.
func (s *AssemblySession) Checklist() ([]model.ChecklistItem, uint64) {
	return s.store.Snapshot()
}

// Plan returns the box plan the session was built from.
func (s *AssemblySession) Plan() model.BoxPlan { return s.plan }

// Allocation returns the item distribution the session was built from.
func (s *AssemblySession) Allocation() model.AllocationResult { return s.allocation }

// Expansion returns the set expansion the session was built from.
func (s *AssemblySession) Expansion() ExpansionResult { return s.expansion }

// ActiveBox returns the box index scans and weights are routed against.
func (s *AssemblySession) ActiveBox() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeBox
}

// SetActiveBox switches the box the operator is working on.
func (s *AssemblySession) SetActiveBox(boxIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, _ := s.store.Snapshot()
	if boxRow(items, boxIndex) == -1 {
		return ErrRowNotFound
	}
	s.activeBox = boxIndex
	return nil
}

// Completed reports whether every checklist row has reached done.
func (s *AssemblySession) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// DrainEvents returns the notifications accumulated since the last drain.
func (s *AssemblySession) DrainEvents() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.events
	s.events = nil
	return events
}

// HandleScan routes one decoded barcode against the checklist.
func (s *AssemblySession) HandleScan(code string) ScanResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result ScanResult
	err := s.store.Update(func(items []model.ChecklistItem) error {
		result = s.router.Route(items, s.activeBox, code)
		if !result.Accepted {
			return errScanRejected
		}
		return nil
	})

	if err != nil {
		s.emit(model.Event{
			Kind:   model.EventScanRejected,
			RowID:  result.RowID,
			Reason: result.Reason,
		})
		return result
	}

	from, to := model.StatusDefault, model.StatusPending
	if result.Outcome == ScanConfirmedBox {
		from, to = model.StatusAwaitingConfirmation, model.StatusConfirmed
	}
	s.emit(model.Event{
		Kind:  model.EventRowTransitioned,
		RowID: result.RowID,
		From:  from,
		To:    to,
	})
	return result
}

// HandleWeight feeds one raw scale sample through the classifier and, for a
// stable reading, scores it against the row under verification. Valid
// readings arm the settle timer; out-of-band readings arm the retry timer.
func (s *AssemblySession) HandleWeight(sample *ScaleSample, connected bool) WeightOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	classification := s.classifier.Classify(sample, connected)
	outcome := WeightOutcome{Classification: classification}
	if classification.Status != WeightStatusStable {
		return outcome
	}

	var check WeightCheck
	var from model.Status
	var rowType model.ItemType

	err := s.store.Update(func(items []model.ChecklistItem) error {
		check = s.validator.Check(items, s.activeBox, sample.Weight)
		if check.Ignored || check.RowID == "" {
			return errScanRejected
		}

		idx := rowByID(items, check.RowID)
		from = items[idx].Status
		rowType = items[idx].Type

		if check.Valid {
			items[idx].Status = model.StatusSuccess
		} else {
			items[idx].Status = model.StatusError
		}
		return nil
	})

	outcome.Check = &check
	if err != nil {
		return outcome
	}

	gen := s.generation
	if check.Valid {
		s.emit(model.Event{Kind: model.EventRowTransitioned, RowID: check.RowID, From: from, To: model.StatusSuccess})
		s.timers.Schedule(check.RowID, s.cfg.SettleDelay, func() { s.onSettled(check.RowID, gen) })
	} else {
		s.emit(model.Event{Kind: model.EventRowTransitioned, RowID: check.RowID, From: from, To: model.StatusError})
		s.emit(model.Event{Kind: model.EventWeightRejected, RowID: check.RowID, Reason: i18n.MsgKeyWeightOutOfTolerance})
		retryRow := check.RowID
		isBox := rowType == model.ItemTypeBox
		s.timers.Schedule(retryRow, s.cfg.RetryDelay, func() { s.onRetry(retryRow, isBox, gen) })
	}

	return outcome
}

// onSettled finishes a success row: it becomes done, the next default row in
// the box is auto-selected into pending, and the active box advances once a
// box has no rows left.
func (s *AssemblySession) onSettled(rowID string, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return
	}

	var next string
	var boxIndex int
	done := false

	err := s.store.Update(func(items []model.ChecklistItem) error {
		idx := rowByID(items, rowID)
		if idx == -1 || !items[idx].Status.CanTransition(model.StatusDone, items[idx].Type) {
			return errScanRejected
		}
		items[idx].Status = model.StatusDone
		boxIndex = items[idx].BoxIndex

		if nextIdx := nextDefaultRow(items, boxIndex); nextIdx != -1 {
			items[nextIdx].Status = model.StatusPending
			next = items[nextIdx].ID
		}
		done = allDone(items)
		return nil
	})
	if err != nil {
		return
	}

	s.emit(model.Event{Kind: model.EventRowTransitioned, RowID: rowID, From: model.StatusSuccess, To: model.StatusDone})
	if next != "" {
		s.emit(model.Event{Kind: model.EventRowTransitioned, RowID: next, From: model.StatusDefault, To: model.StatusPending})
	}

	if next == "" {
		s.advanceActiveBox(boxIndex)
	}
	if done && !s.completed {
		s.completed = true
		s.emit(model.Event{Kind: model.EventSessionCompleted})
		log.Info().Str("session_id", s.ID).Msg("Assembly session completed")
	}
}

// advanceActiveBox moves the active box to the next box that still has
// unfinished rows, if the given box is fully done.
func (s *AssemblySession) advanceActiveBox(boxIndex int) {
	if s.activeBox != boxIndex {
		return
	}
	items, _ := s.store.Snapshot()
	for i := range items {
		if items[i].BoxIndex == boxIndex && items[i].Status != model.StatusDone {
			return
		}
	}
	for i := range items {
		if items[i].Status != model.StatusDone {
			s.activeBox = items[i].BoxIndex
			return
		}
	}
}

// onRetry reverts an error row so it can be re-weighed: products back to
// pending, boxes to awaiting_confirmation.
func (s *AssemblySession) onRetry(rowID string, isBox bool, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return
	}

	target := model.StatusPending
	if isBox {
		target = model.StatusAwaitingConfirmation
	}

	err := s.store.Update(func(items []model.ChecklistItem) error {
		idx := rowByID(items, rowID)
		if idx == -1 || !items[idx].Status.CanTransition(target, items[idx].Type) {
			return errScanRejected
		}
		items[idx].Status = target
		return nil
	})
	if err != nil {
		return
	}
	s.emit(model.Event{Kind: model.EventRowTransitioned, RowID: rowID, From: model.StatusError, To: target})
}

// Reset cancels every pending timer and reverts all unfinished rows to
// default. done rows are kept; the classifier and cooldown state restart.
func (s *AssemblySession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.timers.CancelAll()
	// A callback that already left the timer goroutine and is waiting on the
	// mutex survives CancelAll; the generation bump turns it into a no-op.
	s.generation++
	s.classifier.Reset()
	s.router.lastCode = ""

	_ = s.store.Update(func(items []model.ChecklistItem) error {
		for i := range items {
			if items[i].Status != model.StatusDone {
				items[i].Status = model.StatusDefault
			}
		}
		return nil
	})
}

// Close releases the session's timers.
func (s *AssemblySession) Close() {
	s.timers.CancelAll()
}

// emit appends an event to the retained ring. Callers hold s.mu.
func (s *AssemblySession) emit(event model.Event) {
	event.SessionID = s.ID
	event.Timestamp = s.clock.Now()
	s.events = append(s.events, event)
	if len(s.events) > maxRetainedEvents {
		s.events = s.events[len(s.events)-maxRetainedEvents:]
	}
}

// BoxCatalog is the port to the box definition source.
type BoxCatalog interface {
	ListActive(ctx context.Context) ([]model.BoxDefinition, error)
}

// CreateSessionResult is the outcome of building a session from raw order
// lines. Packing failures are data, not errors: an infeasible plan or a
// non-empty unallocated list blocks the workflow but is returned structured.
type CreateSessionResult struct {
	Session    *AssemblySession
	Expansion  ExpansionResult
	Plan       model.BoxPlan
	Allocation model.AllocationResult
	// Infeasible is true when no session could be built from the order.
	Infeasible bool
}

// SessionService creates and tracks assembly sessions.
type SessionService interface {
	Create(ctx context.Context, lines []model.OrderLine, mode model.PlanMode) (CreateSessionResult, error)
	Get(id string) (*AssemblySession, error)
	Delete(id string) error
}

// SessionServiceImpl implements SessionService over the engine components.
type SessionServiceImpl struct {
	expander  SetExpander
	planner   BoxPlanner
	allocator BoxAllocator
	boxes     BoxCatalog
	clock     Clock
	cfg       SessionConfig

	mu       sync.RWMutex
	sessions map[string]*AssemblySession
}

// NewSessionService creates a new SessionServiceImpl.
func NewSessionService(
	expander SetExpander,
	planner BoxPlanner,
	allocator BoxAllocator,
	boxes BoxCatalog,
	clock Clock,
	cfg SessionConfig,
) *SessionServiceImpl {
	return &SessionServiceImpl{
		expander:  expander,
		planner:   planner,
		allocator: allocator,
		boxes:     boxes,
		clock:     clock,
		cfg:       cfg,
		sessions:  make(map[string]*AssemblySession),
	}
}

// Create expands the order, plans boxes, allocates items and builds the
// initial checklist. The error return covers catalog access only; packing
// failures come back structured in the result.
func (s *SessionServiceImpl) Create(ctx context.Context, lines []model.OrderLine, mode model.PlanMode) (CreateSessionResult, error) {
	result := CreateSessionResult{}

	boxes, err := s.boxes.ListActive(ctx)
	if err != nil {
		return result, err
	}

	result.Expansion = s.expander.Expand(ctx, lines)
	portions := result.Expansion.TotalPortions()

	result.Plan = s.planner.Plan(portions, boxes, mode)
	if !result.Plan.Feasible {
		result.Infeasible = true
		metrics.SessionsCreatedTotal.WithLabelValues("infeasible").Inc()
		return result, nil
	}

	if result.Plan.BoxCount > 1 {
		items := make([]model.ExpandedItem, 0, len(result.Expansion.Items))
		for _, item := range result.Expansion.Items {
			items = append(items, item)
		}
		result.Allocation = s.allocator.Allocate(items, result.Plan.BoxCount, result.Plan.PortionsPerBox)
		if result.Allocation.Infeasible() {
			result.Infeasible = true
			metrics.SessionsCreatedTotal.WithLabelValues("infeasible").Inc()
			return result, nil
		}
	} else {
		result.Allocation = SingleBoxAllocation(result.Expansion.Items)
	}

	checklist := BuildChecklist(result.Plan, result.Allocation)
	session := NewAssemblySession(uuid.NewString(), checklist, result.Plan, result.Allocation, result.Expansion, s.clock, s.cfg)

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	metrics.SessionsCreatedTotal.WithLabelValues("ok").Inc()
	metrics.ActiveSessions.Inc()
	log.Info().
		Str("session_id", session.ID).
		Int("boxes", result.Plan.BoxCount).
		Int("portions", portions).
		Msg("Assembly session created")

	result.Session = session
	return result, nil
}

// Get returns the session with the given id.
func (s *SessionServiceImpl) Get(id string) (*AssemblySession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Delete closes and removes the session with the given id.
func (s *SessionServiceImpl) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	session.Close()
	delete(s.sessions, id)
	metrics.ActiveSessions.Dec()
	return nil
}
