package preview

import (
	"sync"

	"github.com/christiandoxa/kompresin/internal/logger"
)

// Role names one of the two preview slots.
type Role string

const (
	RoleBefore Role = "before"
	RoleAfter  Role = "after"
)

// Manager holds at most one live handle per role. Replacing a role
// revokes the previous handle first; Reset revokes both and is safe to
// call repeatedly.
type Manager struct {
	mu     sync.Mutex
	before *Handle
	after  *Handle
	log    logger.Logger
}

func NewManager(log logger.Logger) *Manager {
	return &Manager{log: log}
}

// SetBefore replaces the "before" preview with the selected file's
// content and returns the new handle.
func (m *Manager) SetBefore(data []byte, mediaType string) *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.revokeLocked(RoleBefore)
	m.before = newHandle(data, mediaType)

	m.log.Debug("Preview", "before handle replaced", map[string]interface{}{
		"handle_id": m.before.ID(),
		"bytes":     len(data),
		"is_image":  m.before.IsImage(),
	})
	return m.before
}

// SetAfter replaces the "after" preview with engine output.
func (m *Manager) SetAfter(data []byte, mediaType string) *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.revokeLocked(RoleAfter)
	m.after = newHandle(data, mediaType)

	m.log.Debug("Preview", "after handle replaced", map[string]interface{}{
		"handle_id": m.after.ID(),
		"bytes":     len(data),
		"is_image":  m.after.IsImage(),
	})
	return m.after
}

// Revoke releases one role, leaving it unset.
func (m *Manager) Revoke(role Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revokeLocked(role)
}

// Reset revokes both roles. Idempotent.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revokeLocked(RoleBefore)
	m.revokeLocked(RoleAfter)
}

// Before returns the live "before" handle, or nil.
func (m *Manager) Before() *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.before
}

// After returns the live "after" handle, or nil.
func (m *Manager) After() *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.after
}

func (m *Manager) revokeLocked(role Role) {
	var h *Handle
	switch role {
	case RoleBefore:
		h, m.before = m.before, nil
	case RoleAfter:
		h, m.after = m.after, nil
	}
	if h == nil {
		return
	}

	h.revoke()
	m.log.Debug("Preview", "handle revoked", map[string]interface{}{
		"role":      string(role),
		"handle_id": h.ID(),
	})
}
