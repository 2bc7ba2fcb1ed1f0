package controllers

import (
	"Dilemma/services/flows"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// render writes a flow outcome: the error body with the kind's status, or
// body plus the next view with okStatus.
func render(c *gin.Context, okStatus int, out flows.Outcome, body gin.H) {
	if out.Failed() {
		c.JSON(out.Err.Kind.HTTPStatus(), gin.H{
			"error": out.Err.Message,
			"kind":  out.Err.Kind,
			"view":  out.View,
		})
		return
	}
	if body == nil {
		body = gin.H{}
	}
	body["view"] = out.View
	c.JSON(okStatus, body)
}

func participantBody(out flows.Outcome) gin.H {
	p := out.Participant
	return gin.H{
		"participant": p,
		"has_choice":  p.HasChoice(),
		"choice":      p.CurrentChoice(),
	}
}

// joinURL is the link participants open to join a room. Without a
// configured public URL it is derived from the request.
func joinURL(c *gin.Context, publicURL, code string) string {
	base := strings.TrimRight(publicURL, "/")
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = scheme + "://" + c.Request.Host
	}
	return base + "/?room=" + code
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "kind": "validation"})
}
