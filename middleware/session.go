package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookieName = "session_id"
	SessionTimeout    = 24 * time.Hour
	sessionContextKey = "sessionID"
)

type Session struct {
	ID        string
	CreatedAt time.Time
	LastSeen  time.Time
}

// SessionManager tracks browser sessions so that each visitor only sees
// and downloads their own notes.
type SessionManager struct {
	sessions map[string]*Session
	timeout  time.Duration
	mu       sync.RWMutex
}

// NewSessionManager expires sessions idle for longer than timeout.
func NewSessionManager(timeout time.Duration) *SessionManager {
	if timeout <= 0 {
		timeout = SessionTimeout
	}
	return &SessionManager{
		sessions: make(map[string]*Session),
		timeout:  timeout,
	}
}

// generateSessionID returns 32 random bytes as hex, or a UUID if the
// system random source fails.
func generateSessionID() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(b)
}

// GetOrCreateSession returns the live session for sessionID or a new one.
func (sm *SessionManager) GetOrCreateSession(sessionID string) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sessionID != "" {
		if session, exists := sm.sessions[sessionID]; exists {
			if time.Since(session.LastSeen) < sm.timeout {
				session.LastSeen = time.Now()
				return session
			}
			delete(sm.sessions, sessionID)
		}
	}

	newSession := &Session{
		ID:        generateSessionID(),
		CreatedAt: time.Now(),
		LastSeen:  time.Now(),
	}
	sm.sessions[newSession.ID] = newSession
	return newSession
}

// GetSession looks a session up without creating one.
func (sm *SessionManager) GetSession(sessionID string) (*Session, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return nil, false
	}
	if time.Since(session.LastSeen) >= sm.timeout {
		delete(sm.sessions, sessionID)
		return nil, false
	}
	session.LastSeen = time.Now()
	return session, true
}

// Len returns the number of tracked sessions, expired ones included.
func (sm *SessionManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// CleanupExpired removes idle sessions until ctx is done.
func (sm *SessionManager) CleanupExpired(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sm.sweep(time.Now())
		}
	}
}

func (sm *SessionManager) sweep(now time.Time) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for id, session := range sm.sessions {
		if now.Sub(session.LastSeen) >= sm.timeout {
			delete(sm.sessions, id)
		}
	}
}

// SessionMiddleware makes sure every request carries a session cookie.
func SessionMiddleware(sm *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, _ := c.Cookie(SessionCookieName)
		session := sm.GetOrCreateSession(sessionID)

		if sessionID != session.ID {
			isSecure := c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
			c.SetCookie(
				SessionCookieName,
				session.ID,
				int(sm.timeout.Seconds()),
				"/",
				"",
				isSecure,
				true, // httpOnly
			)
		}

		c.Set(sessionContextKey, session.ID)
		c.Next()
	}
}

// GetSessionID returns the session ID stored by SessionMiddleware.
func GetSessionID(c *gin.Context) string {
	if id, ok := c.Get(sessionContextKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
