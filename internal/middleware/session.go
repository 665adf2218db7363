package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"cineorca/internal/config"
)

// SessionName is the name of the session cookie.
const SessionName = "cineorca_session"

const (
	sessionUserKey = "user_id"
	sessionMaxAge  = 7 * 24 * 60 * 60
)

// Sessions returns the cookie-backed session middleware. It must run before
// AuthMiddleware for session logins to be recognized.
func Sessions(cfg *config.Config) gin.HandlerFunc {
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		Secure:   cfg.SessionSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(SessionName, store)
}

func hasSessions(c *gin.Context) bool {
	_, ok := c.Get(sessions.DefaultKey)
	return ok
}

// SessionUserID returns the user stored in the session, or "" when there is
// no session middleware or nobody is logged in.
func SessionUserID(c *gin.Context) string {
	if !hasSessions(c) {
		return ""
	}
	userID, _ := sessions.Default(c).Get(sessionUserKey).(string)
	return userID
}

// StartSession logs the user into the cookie session.
func StartSession(c *gin.Context, userID string) error {
	if !hasSessions(c) {
		return nil
	}
	sess := sessions.Default(c)
	sess.Set(sessionUserKey, userID)
	return sess.Save()
}

// EndSession clears the cookie session.
func EndSession(c *gin.Context) error {
	if !hasSessions(c) {
		return nil
	}
	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	return sess.Save()
}
