package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stellar-lakers/stellar-gateway/internal/models"
)

// ErrEventNotFound is returned when a selection targets an id that is not in
// the current month's list.
var ErrEventNotFound = errors.New("event not found in current month")

// EventLister is the fetch boundary the calendar depends on. Implementations
// fail soft: an empty slice stands in for every failure mode.
type EventLister interface {
	ListEvents(ctx context.Context, month int, year int) []models.Event
}

// CalendarState is the one explicit state record for the whole page: the
// month cursor, the fetched list, the loading flag, the selection and the
// filter inputs. Handlers and tests work against copies of it.
type CalendarState struct {
	Month   int // zero-based, mirroring the upstream prompt contract
	Year    int
	Events  []models.Event
	Loading bool
	Fetched bool

	SelectedID string
	Query      string
	Category   string
}

// Calendar owns the calendar state and its transitions. Every fetch is
// stamped with a generation; a result whose generation is no longer current
// is discarded, so the most recent request wins regardless of response
// arrival order.
type Calendar struct {
	// guards state and generation; transitions are atomic with respect to
	// each other, and no fetch result is applied mid-transition.
	mu       sync.Mutex
	state    CalendarState
	fetchGen uint64

	fetcher EventLister
	logger  *zap.Logger
}

// NewCalendar builds a calendar positioned on the given zero-based month.
func NewCalendar(fetcher EventLister, month int, year int, logger *zap.Logger) *Calendar {
	return &Calendar{
		state: CalendarState{
			Month:    month,
			Year:     year,
			Events:   []models.Event{},
			Category: models.CategoryAll,
		},
		fetcher: fetcher,
		logger:  logger.Named("calendar"),
	}
}

// NewCalendarAt positions the calendar on the month containing now.
func NewCalendarAt(fetcher EventLister, now time.Time, logger *zap.Logger) *Calendar {
	return NewCalendar(fetcher, int(now.Month())-1, now.Year(), logger)
}

// ChangeMonth moves the cursor by delta months and refreshes the list.
func (c *Calendar) ChangeMonth(ctx context.Context, delta int) {
	c.mu.Lock()
	next := time.Date(c.state.Year, time.Month(c.state.Month+1+delta), 1, 0, 0, 0, 0, time.UTC)
	c.state.Month = int(next.Month()) - 1
	c.state.Year = next.Year()
	c.mu.Unlock()

	c.Refresh(ctx)
}

// GoTo jumps the cursor to an absolute (month, year) and refreshes. No range
// validation is performed; out-of-range months roll the year the way the
// upstream prompt does.
func (c *Calendar) GoTo(ctx context.Context, month int, year int) {
	c.mu.Lock()
	cursor := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	c.state.Month = int(cursor.Month()) - 1
	c.state.Year = cursor.Year()
	c.mu.Unlock()

	c.Refresh(ctx)
}

// Refresh fetches the list for the current cursor. The loading flag is
// cleared whether the fetch succeeds or fails; a refresh superseded by a
// later one leaves the state untouched.
func (c *Calendar) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.state.Loading = true
	c.fetchGen++
	gen := c.fetchGen
	month, year := c.state.Month, c.state.Year
	c.mu.Unlock()

	events := c.fetcher.ListEvents(ctx, month, year)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.fetchGen {
		c.logger.Debug("Discarding superseded fetch result",
			zap.Uint64("generation", gen), zap.Int("month", month), zap.Int("year", year))
		return
	}
	c.state.Events = events
	c.state.Loading = false
	c.state.Fetched = true
	if c.state.SelectedID != "" && c.lookupLocked(c.state.SelectedID) == nil {
		// The selection does not survive the list it belonged to.
		c.state.SelectedID = ""
	}
}

// EnsureLoaded refreshes once if nothing has ever been fetched for the
// current cursor. Used by read handlers so the first page load is not empty.
func (c *Calendar) EnsureLoaded(ctx context.Context) {
	c.mu.Lock()
	fetched := c.state.Fetched
	c.mu.Unlock()
	if !fetched {
		c.Refresh(ctx)
	}
}

// Select marks one event of the current list as selected.
func (c *Calendar) Select(id string) (models.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.lookupLocked(id)
	if e == nil {
		return models.Event{}, ErrEventNotFound
	}
	c.state.SelectedID = id
	return *e, nil
}

// ClearSelection resets the selection to none.
func (c *Calendar) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SelectedID = ""
}

// SetFilters replaces the free-text query and category selector.
func (c *Calendar) SetFilters(query string, category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Query = query
	if category == "" {
		category = models.CategoryAll
	}
	c.state.Category = category
}

// Visible derives the currently visible set from the state record.
func (c *Calendar) Visible() []models.Event {
	s := c.Snapshot()
	return VisibleEvents(s.Events, s.Query, s.Category)
}

// Snapshot returns a copy of the state record. The event slice is shared but
// never mutated after a fetch is applied.
func (c *Calendar) Snapshot() CalendarState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Calendar) lookupLocked(id string) *models.Event {
	for i := range c.state.Events {
		if c.state.Events[i].ID == id {
			return &c.state.Events[i]
		}
	}
	return nil
}
