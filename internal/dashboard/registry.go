package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Thiagomartinsvieira/document-management-employees/internal/core/events"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/i18n"
)

// Registry holds one Controller per authenticated session.
type Registry struct {
	store    EmployeeStore
	pictures PictureUploader
	messages *i18n.Messages
	logger   *slog.Logger

	mu          sync.Mutex
	controllers map[string]*Controller
}

func NewRegistry(store EmployeeStore, pictures PictureUploader, messages *i18n.Messages, logger *slog.Logger) *Registry {
	return &Registry{
		store:       store,
		pictures:    pictures,
		messages:    messages,
		logger:      logger,
		controllers: make(map[string]*Controller),
	}
}

// For returns the controller of sessionID, creating it on first use.
func (r *Registry) For(sessionID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.controllers[sessionID]
	if !ok {
		c = NewController(r.store, r.pictures, r.messages, r.logger.With("session_id", sessionID))
		r.controllers[sessionID] = c
	}
	return c
}

func (r *Registry) Evict(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.controllers, sessionID)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}

// HandleSessionRevoked is an event bus handler for session.revoked.
func (r *Registry) HandleSessionRevoked(ctx context.Context, event events.Event) error {
	revoked, ok := event.(*events.SessionRevokedEvent)
	if !ok {
		return nil
	}
	r.Evict(revoked.SessionID)
	r.logger.Debug("dashboard state evicted", "session_id", revoked.SessionID)
	return nil
}

// Sweep drops controllers idle for longer than maxIdle and returns how many
// were removed.
func (r *Registry) Sweep(now time.Time, maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, c := range r.controllers {
		if now.Sub(c.LastUsed()) > maxIdle {
			delete(r.controllers, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			if n := r.Sweep(t, maxIdle); n > 0 {
				r.logger.Info("idle dashboard state swept", "count", n)
			}
		}
	}
}
