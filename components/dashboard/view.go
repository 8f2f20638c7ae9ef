package dashboard

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// ViewState is the externally visible state of a view.
type ViewState string

const (
	StateIdle          ViewState = "idle"
	StateLoading       ViewState = "loading"
	StateLoaded        ViewState = "loaded"
	StateEmpty         ViewState = "empty"
	StateFilteredEmpty ViewState = "filtered_empty"
	StateFailed        ViewState = "failed"
)

// ViewEvent describes a change transports might push to a client.
type ViewEvent struct {
	SessionID  string    `json:"session_id,omitempty"`
	View       string    `json:"view"`
	Reason     string    `json:"reason"`
	State      ViewState `json:"state"`
	Count      int       `json:"count"`
	RecordID   string    `json:"record_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ViewSnapshot is the type-erased rendering of a view.
type ViewSnapshot struct {
	Code       string        `json:"code"`
	Label      string        `json:"label"`
	Entity     string        `json:"entity"`
	State      ViewState     `json:"state"`
	Message    string        `json:"message,omitempty"`
	Total      int           `json:"total"`
	Count      int           `json:"count"`
	Selections Selections    `json:"selections"`
	Query      string        `json:"query"`
	Filters    []FilterField `json:"filters"`
	Actions    []string      `json:"actions"`
	Records    any           `json:"records"`
	LoadedAt   *time.Time    `json:"loaded_at,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// ViewHandle is the erased view contract sessions hold.
type ViewHandle interface {
	Code() string
	State() ViewState
	Mount(ctx context.Context)
	Teardown()
	Snapshot() ViewSnapshot
	ApplyFilters(selections Selections, query string) error
	Delete(id string, confirmed bool) (Record, error)
	Toggle(id string) (Record, error)
}

// Toggle flips one two-valued field of a record. Apply reports false when
// the current value is outside the pair.
type Toggle[T Record] struct {
	Field string
	Apply func(record T) (T, bool)
}

// ViewConfig wires a View to its data and collaborators.
type ViewConfig[T Record] struct {
	Definition ViewDefinition
	Source     Source[T]
	Schema     Schema[T]
	Deletable  bool
	Toggle     *Toggle[T]
	// Refresh computes the next collection on every RefreshInterval tick.
	Refresh func(current []T) []T
	// Prompt replaces the default delete confirmation text.
	Prompt    func(record T) string
	Delay     func() time.Duration
	Scheduler Scheduler
	Now       func() time.Time
	OnEvent   func(ViewEvent)
}

// View owns one collection, its filter state and its timers. Every state
// transition happens under mu; timer callbacks carry the epoch they were
// scheduled in and are dropped once the view is torn down or remounted.
type View[T Record] struct {
	cfg ViewConfig[T]

	mu         sync.Mutex
	state      ViewState
	epoch      uint64
	records    []T
	selections Selections
	query      string
	pending    Timer
	ticker     Timer
	cancel     context.CancelFunc
	loadedAt   time.Time
	err        error
	closed     bool
}

// NewView builds an idle view.
func NewView[T Record](cfg ViewConfig[T]) *View[T] {
	cfg.Scheduler = normalizeScheduler(cfg.Scheduler)
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Delay == nil {
		cfg.Delay = func() time.Duration { return cfg.Definition.MinDelay }
	}
	return &View[T]{cfg: cfg, state: StateIdle, selections: Selections{}}
}

func (v *View[T]) Code() string { return v.cfg.Definition.Code }

// State reports the derived state, distinguishing empty from filtered_empty.
func (v *View[T]) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	state, _ := v.deriveLocked()
	return state
}

// Mount starts loading. A mounted view is torn down and reloaded; a view
// that was torn down stays idle.
func (v *View[T]) Mount(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.stopLocked()
	v.epoch++
	epoch := v.epoch
	v.state = StateLoading
	v.records = nil
	v.err = nil
	loadCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	v.cancel = cancel
	delay := v.cfg.Delay()
	v.mu.Unlock()

	v.publish("loading", StateLoading, 0, "")
	if delay <= 0 {
		v.complete(loadCtx, epoch)
		return
	}
	timer := v.cfg.Scheduler.AfterFunc(delay, func() { v.complete(loadCtx, epoch) })

	v.mu.Lock()
	if v.epoch == epoch && v.state == StateLoading {
		v.pending = timer
		v.mu.Unlock()
		return
	}
	v.mu.Unlock()
	timer.Stop()
}

func (v *View[T]) complete(ctx context.Context, epoch uint64) {
	v.mu.Lock()
	if v.epoch != epoch || v.state != StateLoading {
		v.mu.Unlock()
		return
	}
	v.pending = nil
	v.mu.Unlock()

	// Sources may block on I/O; the epoch is checked again afterwards.
	records, err := v.cfg.Source.Load(ctx, v.cfg.Definition.Count)

	v.mu.Lock()
	if v.epoch != epoch || v.state != StateLoading {
		v.mu.Unlock()
		return
	}
	if err != nil {
		v.state = StateFailed
		v.err = err
		v.mu.Unlock()
		v.publish("failed", StateFailed, 0, "")
		return
	}
	if records == nil {
		records = []T{}
	}
	v.records = records
	v.state = StateLoaded
	v.loadedAt = v.cfg.Now()
	if v.cfg.Refresh != nil && v.cfg.Definition.RefreshInterval > 0 {
		v.ticker = v.cfg.Scheduler.Every(v.cfg.Definition.RefreshInterval, func() { v.tick(epoch) })
	}
	state, visible := v.deriveLocked()
	v.mu.Unlock()
	v.publish("loaded", state, len(visible), "")
}

func (v *View[T]) tick(epoch uint64) {
	v.mu.Lock()
	if v.epoch != epoch || v.state != StateLoaded {
		v.mu.Unlock()
		return
	}
	v.records = v.cfg.Refresh(v.records)
	v.loadedAt = v.cfg.Now()
	state, visible := v.deriveLocked()
	v.mu.Unlock()
	v.publish("refresh", state, len(visible), "")
}

// Teardown cancels pending work and discards the collection. It is final:
// later Mount calls are ignored, including on a view that never mounted.
func (v *View[T]) Teardown() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	if v.state == StateIdle {
		v.mu.Unlock()
		return
	}
	v.stopLocked()
	v.epoch++
	v.state = StateIdle
	v.records = nil
	v.selections = Selections{}
	v.query = ""
	v.err = nil
	v.mu.Unlock()
	v.publish("teardown", StateIdle, 0, "")
}

func (v *View[T]) stopLocked() {
	if v.pending != nil {
		v.pending.Stop()
		v.pending = nil
	}
	if v.ticker != nil {
		v.ticker.Stop()
		v.ticker = nil
	}
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

// ApplyFilters replaces the selections and query. Selections are checked
// against the schema; options derived from data are only checked once the
// collection is loaded.
func (v *View[T]) ApplyFilters(selections Selections, query string) error {
	v.mu.Lock()
	if err := v.cfg.Schema.Validate(v.records, selections); err != nil {
		v.mu.Unlock()
		return fmt.Errorf("dashboard: filter %s: %w", v.Code(), err)
	}
	v.selections = selections.Normalize()
	v.query = query
	state, visible := v.deriveLocked()
	v.mu.Unlock()
	v.publish("filter", state, len(visible), "")
	return nil
}

// Delete removes the record with id. Without confirmation it returns a
// *ConfirmationError naming the record.
func (v *View[T]) Delete(id string, confirmed bool) (Record, error) {
	v.mu.Lock()
	if err := v.readyLocked(); err != nil {
		v.mu.Unlock()
		return nil, err
	}
	if !v.cfg.Deletable {
		v.mu.Unlock()
		return nil, fmt.Errorf("%w: delete on %s", ErrActionNotSupported, v.Code())
	}
	idx := v.indexLocked(id)
	if idx < 0 {
		v.mu.Unlock()
		return nil, fmt.Errorf("%w: %s %s", ErrRecordNotFound, v.Code(), id)
	}
	record := v.records[idx]
	if !confirmed {
		v.mu.Unlock()
		prompt := fmt.Sprintf("Are you sure you want to delete %s %q (ID: %s)?", v.cfg.Definition.Entity, record.RecordName(), id)
		if v.cfg.Prompt != nil {
			prompt = v.cfg.Prompt(record)
		}
		return nil, &ConfirmationError{View: v.Code(), ID: id, Prompt: prompt}
	}
	v.records = slices.Delete(v.records, idx, idx+1)
	state, visible := v.deriveLocked()
	v.mu.Unlock()
	v.publish("delete", state, len(visible), id)
	return record, nil
}

// Toggle flips the configured field of the record with id in place.
func (v *View[T]) Toggle(id string) (Record, error) {
	v.mu.Lock()
	if err := v.readyLocked(); err != nil {
		v.mu.Unlock()
		return nil, err
	}
	if v.cfg.Toggle == nil || v.cfg.Toggle.Apply == nil {
		v.mu.Unlock()
		return nil, fmt.Errorf("%w: toggle on %s", ErrActionNotSupported, v.Code())
	}
	idx := v.indexLocked(id)
	if idx < 0 {
		v.mu.Unlock()
		return nil, fmt.Errorf("%w: %s %s", ErrRecordNotFound, v.Code(), id)
	}
	updated, ok := v.cfg.Toggle.Apply(v.records[idx])
	if !ok {
		v.mu.Unlock()
		return nil, fmt.Errorf("%w: %s %s", ErrNotToggleable, v.Code(), id)
	}
	v.records[idx] = updated
	state, visible := v.deriveLocked()
	v.mu.Unlock()
	v.publish("toggle", state, len(visible), id)
	return updated, nil
}

func (v *View[T]) readyLocked() error {
	switch v.state {
	case StateLoaded:
		return nil
	case StateFailed:
		return fmt.Errorf("dashboard: view %s failed to load: %w", v.Code(), v.err)
	default:
		return fmt.Errorf("%w: %s", ErrViewNotReady, v.Code())
	}
}

func (v *View[T]) indexLocked(id string) int {
	return slices.IndexFunc(v.records, func(r T) bool { return r.RecordID() == id })
}

// deriveLocked recomputes the visible rows. It never caches.
func (v *View[T]) deriveLocked() (ViewState, []T) {
	if v.state != StateLoaded {
		return v.state, nil
	}
	visible := Filter(v.records, v.cfg.Schema, v.selections, v.query)
	switch {
	case len(v.records) == 0:
		return StateEmpty, visible
	case len(visible) == 0:
		return StateFilteredEmpty, visible
	default:
		return StateLoaded, visible
	}
}

// ViewResult is the typed view of the current rows.
type ViewResult[T Record] struct {
	State   ViewState
	Total   int
	Visible []T
}

// Result returns the current filtered rows.
func (v *View[T]) Result() ViewResult[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	state, visible := v.deriveLocked()
	return ViewResult[T]{State: state, Total: len(v.records), Visible: visible}
}

// Snapshot renders the view for transports.
func (v *View[T]) Snapshot() ViewSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	state, visible := v.deriveLocked()
	def := v.cfg.Definition
	snap := ViewSnapshot{
		Code:       def.Code,
		Label:      def.Label,
		Entity:     def.Entity,
		State:      state,
		Message:    stateMessage(state, def),
		Total:      len(v.records),
		Count:      len(visible),
		Selections: cloneSelections(v.selections),
		Query:      v.query,
		Filters:    v.cfg.Schema.Fields(v.records),
		Actions:    v.actions(),
		Records:    visible,
	}
	if visible == nil {
		snap.Records = []T{}
	}
	if !v.loadedAt.IsZero() && v.state == StateLoaded {
		loaded := v.loadedAt
		snap.LoadedAt = &loaded
	}
	if v.err != nil {
		snap.Error = v.err.Error()
	}
	return snap
}

func (v *View[T]) actions() []string {
	var out []string
	if v.cfg.Deletable {
		out = append(out, "delete")
	}
	if v.cfg.Toggle != nil {
		out = append(out, "toggle:"+v.cfg.Toggle.Field)
	}
	return out
}

func (v *View[T]) publish(reason string, state ViewState, count int, recordID string) {
	if v.cfg.OnEvent == nil {
		return
	}
	v.cfg.OnEvent(ViewEvent{
		View:       v.Code(),
		Reason:     reason,
		State:      state,
		Count:      count,
		RecordID:   recordID,
		OccurredAt: v.cfg.Now(),
	})
}

func stateMessage(state ViewState, def ViewDefinition) string {
	label := strings.ToLower(def.Label)
	switch state {
	case StateIdle:
		return ""
	case StateLoading:
		return fmt.Sprintf("Loading %s...", label)
	case StateEmpty:
		return fmt.Sprintf("No %s available.", label)
	case StateFilteredEmpty:
		return fmt.Sprintf("No %s match the current filters.", label)
	case StateFailed:
		return fmt.Sprintf("Unable to load %s.", label)
	default:
		return ""
	}
}

func cloneSelections(s Selections) Selections {
	out := make(Selections, len(s))
	for k, val := range s {
		out[k] = val
	}
	return out
}
