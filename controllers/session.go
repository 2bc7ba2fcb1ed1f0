package controllers

import (
	"Dilemma/services/flows"
	"Dilemma/services/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Resolve the startup view
// @Description Returns the view this browser should open on, from its session cookie
// @Tags session
// @Produce json
// @Success 200 {object} object{view=string,participant_name=string,room_code=string,admin_room_code=string}
// @Router /api/session [get]
func GetSession(fl *flows.Flows) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.FromGin(c)
		out := fl.Resume(sess)

		body := gin.H{}
		if p, ok := session.ParticipantOf(sess); ok {
			body["participant_name"] = p.Name
			body["room_code"] = p.RoomCode
		}
		if a, ok := session.AdminOf(sess); ok {
			body["admin_room_code"] = a.RoomCode
		}
		render(c, http.StatusOK, out, body)
	}
}
