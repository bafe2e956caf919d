package coalesce

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/modsync/pkg/logging"
	"github.com/arthur-debert/modsync/pkg/paths"
)

// Syncer consumes the resolved intents a flush produces. The engine is
// the production implementation.
type Syncer interface {
	FileCreated(path string) error
	FileDeleted(path string) error
	FileRenamed(oldPath, newPath string) error
}

// Options are the three timing parameters of the coalescer.
type Options struct {
	// Debounce is the quiet period before a scheduled flush fires;
	// every new event restarts it
	Debounce time.Duration

	// RenameWindow is how long a delete is held as a rename candidate
	// before promotion to a real deletion
	RenameWindow time.Duration

	// RenameSettle is the pause before each rename is processed,
	// giving an external tool time to finish rewriting the file
	RenameSettle time.Duration
}

// deleteRecord holds a delete inside the rename-detection window. It is
// a matching aid, never a persisted fact.
type deleteRecord struct {
	at   time.Time
	stem string
}

// Coalescer turns a raw, noisy stream of create and delete
// notifications into debounced, deduplicated, rename-aware batches. A
// version-control checkout can emit hundreds of events within
// milliseconds; the coalescer reacts only once the burst has settled,
// cancels contradictory pairs outright, and pairs independent
// delete+create events into renames by timing and name similarity.
//
// All pending state is cleared atomically on each flush.
type Coalescer struct {
	mu    sync.Mutex
	sink  Syncer
	clock Clock
	sched Scheduler
	opts  Options

	pendingCreated map[string]struct{}
	pendingDeleted map[string]struct{}
	pendingRenames map[string]string // old path -> new path
	recentDeletes  map[string]deleteRecord

	flushTimer Timer
	logger     zerolog.Logger
}

// New creates a Coalescer delivering flushed intents to sink. A nil
// clock or scheduler means the system one.
func New(sink Syncer, opts Options, clock Clock, sched Scheduler) *Coalescer {
	if clock == nil {
		clock = SystemClock()
	}
	if sched == nil {
		sched = SystemScheduler()
	}
	return &Coalescer{
		sink:           sink,
		clock:          clock,
		sched:          sched,
		opts:           opts,
		pendingCreated: make(map[string]struct{}),
		pendingDeleted: make(map[string]struct{}),
		pendingRenames: make(map[string]string),
		recentDeletes:  make(map[string]deleteRecord),
		logger:         logging.GetLogger("coalesce"),
	}
}

// Create records a raw create notification. A create of a path with a
// pending deletion cancels both sides as a net no-op and schedules
// nothing. Otherwise the path is matched against recent deletes in the
// same directory; the best positively-scoring candidate becomes a
// pending rename, and failing that the path becomes a pending create.
func (c *Coalescer) Create(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.pendingDeleted[path]; ok {
		delete(c.pendingDeleted, path)
		c.logger.Debug().Str("path", path).Msg("Create cancels pending delete")
		return
	}

	if old, ok := c.matchRenameLocked(path); ok {
		c.pendingRenames[old] = path
		delete(c.recentDeletes, old)
		c.logger.Debug().
			Str("from", old).
			Str("to", path).
			Msg("Paired delete and create into rename")
		c.scheduleFlushLocked()
		return
	}

	c.pendingCreated[path] = struct{}{}
	c.scheduleFlushLocked()
}

// Delete records a raw delete notification. A delete of a path with a
// pending creation cancels both sides and schedules nothing. Otherwise
// the delete is held as a rename candidate; a secondary timer promotes
// it to a pending deletion if no create claims it within the window.
func (c *Coalescer) Delete(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.pendingCreated[path]; ok {
		delete(c.pendingCreated, path)
		c.logger.Debug().Str("path", path).Msg("Delete cancels pending create")
		return
	}

	c.recentDeletes[path] = deleteRecord{
		at:   c.clock.Now(),
		stem: paths.Stem(path),
	}
	c.sched.AfterFunc(c.opts.RenameWindow, func() { c.promote(path) })
}

// matchRenameLocked searches recentDeletes for the best rename
// candidate of a created path. Only deletes in the same directory and
// inside the detection window qualify; an exact stem match
// short-circuits the search. Candidates are visited in deterministic
// (sorted key) order so ties resolve to the first visited.
func (c *Coalescer) matchRenameLocked(path string) (string, bool) {
	dir := filepath.Dir(path)
	newStem := paths.Stem(path)
	now := c.clock.Now()

	bestScore := 0.0
	bestOld := ""
	for _, old := range sortedKeys(c.recentDeletes) {
		if filepath.Dir(old) != dir {
			continue
		}
		rec := c.recentDeletes[old]
		elapsed := now.Sub(rec.at)
		if elapsed > c.opts.RenameWindow {
			continue
		}
		score := Score(rec.stem, newStem, elapsed, c.opts.RenameWindow)
		if score >= ExactMatchScore {
			return old, true
		}
		if score > bestScore {
			bestScore = score
			bestOld = old
		}
	}
	if bestScore > 0 {
		return bestOld, true
	}
	return "", false
}

// promote turns a still-unmatched recent delete into a pending
// deletion once its detection window has elapsed.
func (c *Coalescer) promote(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.recentDeletes[path]; !ok {
		return
	}
	delete(c.recentDeletes, path)
	c.pendingDeleted[path] = struct{}{}
	c.logger.Debug().Str("path", path).Msg("Unmatched delete promoted to deletion")
	c.scheduleFlushLocked()
}

// scheduleFlushLocked restarts the debounce timer.
func (c *Coalescer) scheduleFlushLocked() {
	if c.flushTimer != nil {
		c.flushTimer.Stop()
	}
	c.flushTimer = c.sched.AfterFunc(c.opts.Debounce, c.flush)
}

// Flush forces processing of all pending intents immediately, e.g. on
// shutdown.
func (c *Coalescer) Flush() {
	c.flush()
}

// flush atomically snapshots and clears the pending sets, then
// processes renames first (each preceded by the settle delay), then
// deletions, then creations. A failure on one path is logged and never
// aborts the rest of the batch.
func (c *Coalescer) flush() {
	c.mu.Lock()
	created := c.pendingCreated
	deleted := c.pendingDeleted
	renames := c.pendingRenames
	c.pendingCreated = make(map[string]struct{})
	c.pendingDeleted = make(map[string]struct{})
	c.pendingRenames = make(map[string]string)
	c.flushTimer = nil
	c.mu.Unlock()

	if len(created)+len(deleted)+len(renames) == 0 {
		return
	}

	c.logger.Info().
		Int("creates", len(created)).
		Int("deletes", len(deleted)).
		Int("renames", len(renames)).
		Msg("Flushing coalesced events")

	for _, old := range sortedKeys(renames) {
		c.sched.Sleep(c.opts.RenameSettle)
		if err := c.sink.FileRenamed(old, renames[old]); err != nil {
			c.logger.Warn().Err(err).Str("from", old).Str("to", renames[old]).Msg("Rename intent failed")
		}
	}
	for _, path := range sortedKeys(deleted) {
		if err := c.sink.FileDeleted(path); err != nil {
			c.logger.Warn().Err(err).Str("path", path).Msg("Delete intent failed")
		}
	}
	for _, path := range sortedKeys(created) {
		if err := c.sink.FileCreated(path); err != nil {
			c.logger.Warn().Err(err).Str("path", path).Msg("Create intent failed")
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
