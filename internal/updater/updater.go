// Package updater pushes schema edits to the update endpoint.
//
// Each of the two subtrees has its own debouncer: a burst of edits to the
// colour schemes becomes one update_colour_schemes request, and a burst of
// edits to groups or label classes becomes one update_label_class_groups
// request. The payload is read from the document when the timer fires.
package updater

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/thenoetrevino/labelschema/internal/database"
	"github.com/thenoetrevino/labelschema/internal/scheduler"
	"github.com/thenoetrevino/labelschema/internal/schema"
	"github.com/thenoetrevino/labelschema/internal/transport"
)

// Defaults
const (
	DefaultDelay       = 2 * time.Second
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 500 * time.Millisecond
)

// ErrClosed is returned by Push after Close
var ErrClosed = errors.New("updater is closed")

// Store persists drafts and the sync history. *database.Repository
// satisfies it.
type Store interface {
	SaveDraft(ctx context.Context, key string, state schema.State) error
	RecordSync(ctx context.Context, rec database.SyncRecord) (*database.SyncRecord, error)
}

// Updater schedules and sends updates for one document.
type Updater struct {
	doc    *schema.Document
	sender transport.Sender

	delay       time.Duration
	maxAttempts int
	retryDelay  time.Duration

	store    Store
	draftKey string
	logger   *slog.Logger

	schemes *scheduler.Debouncer
	groups  *scheduler.Debouncer

	mu       sync.Mutex
	handlers []func(Result)
	closed   bool

	// serialises sends of the same action so remaps apply in order
	schemesSend sync.Mutex
	groupsSend  sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc

	// sending counts sends in progress, guarded by mu; idle is signalled
	// when it drops to zero
	sending int
	idle    *sync.Cond
}

// Option configures an Updater
type Option func(*Updater)

// WithDelay sets the debounce window
func WithDelay(d time.Duration) Option {
	return func(u *Updater) {
		if d > 0 {
			u.delay = d
		}
	}
}

// WithRetry sets the attempt budget and base backoff per update
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(u *Updater) {
		if maxAttempts > 0 {
			u.maxAttempts = maxAttempts
		}
		if baseDelay > 0 {
			u.retryDelay = baseDelay
		}
	}
}

// WithStore records every result and saves the document under key
func WithStore(store Store, key string) Option {
	return func(u *Updater) {
		u.store = store
		u.draftKey = key
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(u *Updater) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// New creates an updater and subscribes it to doc.
func New(doc *schema.Document, sender transport.Sender, opts ...Option) *Updater {
	ctx, cancel := context.WithCancel(context.Background())
	u := &Updater{
		doc:         doc,
		sender:      sender,
		delay:       DefaultDelay,
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
		logger:      slog.Default(),
		ctx:         ctx,
		cancel:      cancel,
	}
	u.idle = sync.NewCond(&u.mu)
	for _, opt := range opts {
		opt(u)
	}

	u.schemes = scheduler.New(func() {
		u.send(u.ctx, transport.ActionUpdateColourSchemes)
	})
	u.groups = scheduler.New(func() {
		u.send(u.ctx, transport.ActionUpdateLabelClassGroups)
	})

	doc.Subscribe(u.onChange)
	return u
}

// OnResult registers fn to receive every update result. fn runs on the
// goroutine that sent the update.
func (u *Updater) OnResult(fn func(Result)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.handlers = append(u.handlers, fn)
}

// Results returns a channel receiving every update result. Results are
// dropped when the channel buffer is full. The channel is never closed.
func (u *Updater) Results(buffer int) <-chan Result {
	ch := make(chan Result, buffer)
	u.OnResult(func(r Result) {
		select {
		case ch <- r:
		default:
			u.logger.Warn("dropping update result, receiver is slow", "action", r.Action)
		}
	})
	return ch
}

func (u *Updater) onChange(change schema.Change) {
	if change.Has(schema.ChangeColourSchemes) {
		u.schemes.Schedule(u.delay)
	}
	if change.Has(schema.ChangeGroups) {
		u.groups.Schedule(u.delay)
	}
}

// Enable resumes scheduling updates
func (u *Updater) Enable() {
	u.schemes.Enable()
	u.groups.Enable()
}

// Disable stops scheduling updates and cancels pending ones
func (u *Updater) Disable() {
	u.schemes.Disable()
	u.groups.Disable()
}

// Pending reports whether any update is waiting for its timer
func (u *Updater) Pending() bool {
	return u.schemes.Pending() || u.groups.Pending()
}

// Flush sends pending updates now and waits until every send, including
// ones whose timer had already fired, has finished.
func (u *Updater) Flush() {
	u.schemes.Flush()
	u.groups.Flush()
	u.schemes.Wait()
	u.groups.Wait()
	u.waitIdle()
}

// Push sends both subtrees immediately, bypassing the debounce window.
// Pending timers are cancelled since the push covers them.
func (u *Updater) Push(ctx context.Context) error {
	u.mu.Lock()
	closed := u.closed
	u.mu.Unlock()
	if closed {
		return ErrClosed
	}

	u.schemes.Stop()
	u.groups.Stop()

	var errs []error
	for _, action := range []transport.Action{
		transport.ActionUpdateColourSchemes,
		transport.ActionUpdateLabelClassGroups,
	} {
		if r := u.send(ctx, action); r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}

// Close cancels pending timers and waits for requests already sent to
// finish. A request is never aborted once it went out. Call Flush first to
// send pending edits.
func (u *Updater) Close() {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return
	}
	u.closed = true
	u.mu.Unlock()

	u.schemes.Stop()
	u.groups.Stop()
	u.schemes.Wait()
	u.groups.Wait()
	u.waitIdle()
	u.cancel()
}

// begin registers a send. It fails once the updater is closed.
func (u *Updater) begin() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return false
	}
	u.sending++
	return true
}

func (u *Updater) end() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.sending--
	if u.sending == 0 {
		u.idle.Broadcast()
	}
}

func (u *Updater) waitIdle() {
	u.mu.Lock()
	defer u.mu.Unlock()
	for u.sending > 0 {
		u.idle.Wait()
	}
}

// send captures the payload for action, sends it and applies the id mapping.
func (u *Updater) send(ctx context.Context, action transport.Action) Result {
	if !u.begin() {
		return Result{Action: action, At: time.Now(), Err: &transport.UpdateError{
			Code:    transport.ErrCancelled,
			Action:  action,
			Message: "Update not sent",
			Err:     ErrClosed,
		}}
	}
	defer u.end()

	lock := &u.schemesSend
	if action == transport.ActionUpdateLabelClassGroups {
		lock = &u.groupsSend
	}
	lock.Lock()
	defer lock.Unlock()

	var params any
	if action == transport.ActionUpdateColourSchemes {
		params = u.doc.ColourSchemesParams()
	} else {
		params = u.doc.GroupsParams()
	}

	resp, err := transport.SendWithRetry(ctx, u.sender, action, params, u.maxAttempts, u.retryDelay)
	result := Result{Action: action, Response: resp, At: time.Now()}

	if err != nil {
		result.Err = transport.Classify(err)
		if result.Err.Action == "" {
			result.Err.Action = action
		}
		u.logger.Warn("update failed",
			"action", action,
			"code", result.Err.Code.String(),
			"error", err)
	} else {
		if action == transport.ActionUpdateColourSchemes {
			result.Remapped = u.doc.ApplyColourSchemeIDMapping(resp.IDMapping)
		} else {
			result.Remapped = u.doc.ApplyGroupIDMapping(resp.GroupIDMapping, resp.LabelClassIDMapping)
		}
		u.logger.Info("update accepted",
			"action", action,
			"status", resp.Status,
			"remapped", result.Remapped)
	}

	u.record(result)
	u.dispatch(result)
	return result
}

// record saves the document and appends result to the sync history.
// Storage failures are logged, they never fail the update.
func (u *Updater) record(result Result) {
	if u.store == nil {
		return
	}

	// a cancelled update context must not prevent recording it
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := u.store.SaveDraft(ctx, u.draftKey, u.doc.State()); err != nil {
		u.logger.Error("failed to save draft", "error", err)
	}

	rec := database.SyncRecord{
		DraftKey:  u.draftKey,
		Action:    string(result.Action),
		Succeeded: result.Succeeded(),
		Remapped:  result.Remapped,
		CreatedAt: result.At.UTC(),
	}
	if result.Err != nil {
		rec.ErrorCode = result.Err.Code.String()
		rec.Message = result.Err.Error()
	}
	if _, err := u.store.RecordSync(ctx, rec); err != nil {
		u.logger.Error("failed to record sync", "error", err)
	}
}

func (u *Updater) dispatch(result Result) {
	u.mu.Lock()
	handlers := make([]func(Result), len(u.handlers))
	copy(handlers, u.handlers)
	u.mu.Unlock()

	for _, h := range handlers {
		h(result)
	}
}
