package state

import "charm.land/lipgloss/v2"

// NotificationLevel represents the severity/type of a notification.
type NotificationLevel int

const (
	// LevelInfo represents informational notifications (blue, bell icon)
	LevelInfo NotificationLevel = iota
	// LevelWarning represents warning notifications (yellow, warning icon)
	LevelWarning
	// LevelError represents error notifications (red, error icon)
	LevelError
)

// MaxNotifications is how many banners are kept; older ones are dropped.
const MaxNotifications = 4

// Notification represents a single notification message with a severity level.
type Notification struct {
	ID      int
	Level   NotificationLevel
	Message string
}

// NotificationState manages notification display state.
type NotificationState struct {
	notifications []Notification
	nextID        int
	windowWidth   int
	windowHeight  int
}

// NewNotificationState creates a new NotificationState with no notifications.
func NewNotificationState() *NotificationState {
	return &NotificationState{
		notifications: []Notification{},
	}
}

// Add adds a new notification and returns its id so the caller can expire it.
func (s *NotificationState) Add(level NotificationLevel, message string) int {
	s.nextID++
	s.notifications = append(s.notifications, Notification{
		ID:      s.nextID,
		Level:   level,
		Message: message,
	})
	if len(s.notifications) > MaxNotifications {
		s.notifications = s.notifications[len(s.notifications)-MaxNotifications:]
	}
	return s.nextID
}

// Remove drops the notification with the given id, if still shown.
func (s *NotificationState) Remove(id int) {
	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// Clear removes all notifications.
func (s *NotificationState) Clear() {
	s.notifications = []Notification{}
}

// ClearLevel removes all notifications of a specific level.
func (s *NotificationState) ClearLevel(level NotificationLevel) {
	filtered := []Notification{}
	for _, n := range s.notifications {
		if n.Level != level {
			filtered = append(filtered, n)
		}
	}
	s.notifications = filtered
}

// All returns all current notifications.
func (s *NotificationState) All() []Notification {
	return s.notifications
}

// HasAny returns true if there are any notifications.
func (s *NotificationState) HasAny() bool {
	return len(s.notifications) > 0
}

// SetWindowSize updates the window dimensions for positioning calculations.
func (s *NotificationState) SetWindowSize(width, height int) {
	s.windowWidth = width
	s.windowHeight = height
}

// GetLayers creates floating layers for all active notifications.
// Notifications are stacked vertically in the top-right corner of the screen.
func (s *NotificationState) GetLayers(renderFunc func(Notification) string) []*lipgloss.Layer {
	layers := []*lipgloss.Layer{}

	if s.windowWidth == 0 {
		return layers
	}

	row := 0
	for _, notification := range s.notifications {
		view := renderFunc(notification)
		height := lipgloss.Height(view)

		col := max(s.windowWidth-lipgloss.Width(view)-1, 0)
		if row+height >= s.windowHeight {
			break
		}

		layers = append(layers, lipgloss.NewLayer(view).X(col).Y(row))
		row += height + 1
	}

	return layers
}
