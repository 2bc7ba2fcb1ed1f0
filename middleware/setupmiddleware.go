package middleware

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const SessionCookieName = "dilemma"

type Options struct {
	// SessionKey signs the session cookie and the dashboard stream tokens
	SessionKey string
	// Secure marks the cookie HTTPS-only
	Secure bool
	// AllowOrigins defaults to any origin
	AllowOrigins []string
}

func SetUpMiddleware(r *gin.Engine, opts Options) {
	r.Use(gin.Recovery())
	r.Use(RequestLogger())

	store := cookie.NewStore([]byte(opts.SessionKey))
	store.Options(sessions.Options{
		Path: "/",
		// the session is the browser's identity; keep it for a year
		MaxAge:   365 * 24 * 60 * 60,
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(SessionCookieName, store))

	origins := opts.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
}
