package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spacesedan/reviewpulse/internal/session"
)

const (
	sessionCookie = "reviewpulse_session"
	userKey       = "user"
)

// RequestLogger logs each request's method, path, status, and duration.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("error", c.Errors.String()))
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			slog.Error("[HTTP] Request failed", attrs...)
			return
		}
		slog.Info("[HTTP] Request", attrs...)
	}
}

// requireSession redirects to the login page unless the request carries a
// live session cookie. Clients that prefer JSON get a 401 instead.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, err := s.currentUser(c)
		if err != nil {
			if !errors.Is(err, session.ErrSessionNotFound) {
				slog.Warn("[HTTP] Session lookup failed",
					slog.String("error", err.Error()))
			}
			if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
				respondError(c, ErrUnauthorized)
				c.Abort()
				return
			}
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(userKey, username)
		c.Next()
	}
}

func (s *Server) currentUser(c *gin.Context) (string, error) {
	token, err := c.Cookie(sessionCookie)
	if err != nil || token == "" {
		return "", session.ErrSessionNotFound
	}
	return s.sessions.Get(c.Request.Context(), token)
}

func (s *Server) startSession(c *gin.Context, username string) error {
	token, err := s.sessions.Create(c.Request.Context(), username)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, int(s.opts.SessionTTL.Seconds()), "/", "", s.opts.SecureCookies, true)
	return nil
}

func (s *Server) endSession(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil && token != "" {
		if err := s.sessions.Delete(c.Request.Context(), token); err != nil {
			slog.Warn("[HTTP] Failed to delete session",
				slog.String("error", err.Error()))
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", s.opts.SecureCookies, true)
}
