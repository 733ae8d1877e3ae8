package state

import (
	"sync"
	"time"
)

// SyncStatus represents where the editor is in the save cycle
type SyncStatus int

const (
	// Idle means nothing has been edited since start
	Idle SyncStatus = iota
	// Pending means an update is waiting for its debounce timer
	Pending
	// Syncing means a push is in flight
	Syncing
	// Synced means the last update was accepted
	Synced
	// Failed means the last update failed
	Failed
	// Paused means automatic updates are disabled
	Paused
)

// String returns a human-readable string representation of the sync status
func (s SyncStatus) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Pending:
		return "Unsaved"
	case Syncing:
		return "Saving"
	case Synced:
		return "Saved"
	case Failed:
		return "Save failed"
	case Paused:
		return "Autosave off"
	default:
		return "Unknown"
	}
}

// SyncState tracks the update status shown in the status bar
type SyncState struct {
	mu       sync.RWMutex
	status   SyncStatus
	lastSync time.Time
	paused   bool
}

// NewSyncState creates a new SyncState in the Idle status
func NewSyncState() *SyncState {
	return &SyncState{status: Idle}
}

// Status returns the current status (thread-safe). Paused wins over
// everything except an in-flight push.
func (s *SyncState) Status() SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.paused && s.status != Syncing && s.status != Failed {
		return Paused
	}
	return s.status
}

// SetStatus updates the status (thread-safe). Synced also stamps LastSync.
func (s *SyncState) SetStatus(status SyncStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	if status == Synced {
		s.lastSync = time.Now()
	}
}

// LastSync returns when an update was last accepted
func (s *SyncState) LastSync() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSync
}

// SetPaused records whether automatic updates are disabled
func (s *SyncState) SetPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
}

// Paused reports whether automatic updates are disabled
func (s *SyncState) Paused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paused
}
