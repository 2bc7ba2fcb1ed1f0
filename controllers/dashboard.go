package controllers

import (
	"Dilemma/middleware"
	"Dilemma/services/flows"
	"Dilemma/services/session"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// @Summary Enter the facilitator dashboard
// @Description Resolves the room from the query or the session and returns its participants, aggregates and a stream token
// @Tags dashboard
// @Produce json
// @Param room query string false "Room code"
// @Success 200 {object} object{view=string,room=object,participants=[]object,stats=object,stream_token=string,join_url=string}
// @Failure 404 {object} object{error=string,kind=string,view=string}
// @Router /api/dashboard [get]
func GetDashboard(fl *flows.Flows, key []byte, publicURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		out := fl.EnterDashboard(c.Request.Context(), session.FromGin(c), c.Query("room"))
		if out.Failed() || out.Snapshot == nil {
			render(c, http.StatusOK, out, nil)
			return
		}

		token, err := middleware.IssueStreamToken(key, out.Room.ID, out.Room.RoomCode, time.Now())
		if err != nil {
			logrus.WithError(err).WithField("room_id", out.Room.ID).Error("[DASHBOARD] Could not sign stream token")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not open the live stream"})
			return
		}

		render(c, http.StatusOK, out, gin.H{
			"room":         gin.H{"id": out.Room.ID, "room_code": out.Room.RoomCode},
			"participants": out.Snapshot.Participants,
			"stats":        out.Snapshot.Stats,
			"stream_token": token,
			"join_url":     joinURL(c, publicURL, out.Room.RoomCode),
		})
	}
}

type closeRequest struct {
	Confirm bool `json:"confirm" form:"confirm"`
}

// @Summary Close the room
// @Description Deactivates the facilitated room; requires confirm=true
// @Tags dashboard
// @Accept json
// @Produce json
// @Param request body object{confirm=boolean} true "Confirmation"
// @Success 200 {object} object{view=string}
// @Failure 400 {object} object{error=string,kind=string,view=string}
// @Router /api/dashboard/close [post]
func CloseRoom(fl *flows.Flows) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req closeRequest
		// an empty body means unconfirmed
		_ = c.ShouldBind(&req)
		render(c, http.StatusOK, fl.CloseRoom(c.Request.Context(), session.FromGin(c), req.Confirm), nil)
	}
}

// @Summary Start over with a new room
// @Description Forgets the facilitated room without closing it
// @Tags dashboard
// @Produce json
// @Success 200 {object} object{view=string}
// @Router /api/dashboard/new [post]
func NewRoom(fl *flows.Flows) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, http.StatusOK, fl.NewRoom(session.FromGin(c)), nil)
	}
}
