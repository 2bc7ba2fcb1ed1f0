package controllers

import (
	"Dilemma/services/flows"
	"Dilemma/services/roomcode"
	"Dilemma/services/session"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
)

// @Summary Create a room
// @Description Allocates a unique 6 character code and makes this browser the facilitator
// @Tags rooms
// @Produce json
// @Success 201 {object} object{view=string,room=object,join_url=string}
// @Failure 409 {object} object{error=string,kind=string,view=string}
// @Failure 503 {object} object{error=string,kind=string,view=string}
// @Router /api/rooms [post]
func CreateRoom(fl *flows.Flows, publicURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		out := fl.CreateRoom(c.Request.Context(), session.FromGin(c))
		if out.Failed() {
			render(c, http.StatusCreated, out, nil)
			return
		}
		render(c, http.StatusCreated, out, gin.H{
			"room":     out.Room,
			"join_url": joinURL(c, publicURL, out.Room.RoomCode),
		})
	}
}

type joinRequest struct {
	Name     string `json:"name" form:"name"`
	RoomCode string `json:"room_code" form:"room_code"`
}

// @Summary Join a room
// @Description Registers this browser as a participant of the active room with the given code
// @Tags rooms
// @Accept json
// @Produce json
// @Param request body object{name=string,room_code=string} true "Participant name and room code"
// @Success 201 {object} object{view=string,participant=object,room_code=string}
// @Failure 400 {object} object{error=string,kind=string,view=string}
// @Failure 404 {object} object{error=string,kind=string,view=string}
// @Failure 409 {object} object{error=string,kind=string,view=string}
// @Router /api/rooms/join [post]
func JoinRoom(fl *flows.Flows) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req joinRequest
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}

		out := fl.JoinRoom(c.Request.Context(), session.FromGin(c), req.Name, req.RoomCode)
		if out.Failed() {
			render(c, http.StatusCreated, out, nil)
			return
		}
		body := participantBody(out)
		body["room_code"] = out.Room.RoomCode
		render(c, http.StatusCreated, out, body)
	}
}

// @Summary QR code for joining a room
// @Description PNG image of the join link for the room code
// @Tags rooms
// @Produce png
// @Param code path string true "Room code"
// @Success 200 {file} binary
// @Failure 400 {object} object{error=string,kind=string}
// @Router /rooms/{code}/qr [get]
func RoomQRCode(publicURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := roomcode.Normalize(c.Param("code"))
		if !roomcode.Valid(code) {
			badRequest(c, "room code must be 6 letters or digits")
			return
		}

		png, err := qrcode.Encode(joinURL(c, publicURL, code), qrcode.Medium, 320)
		if err != nil {
			logrus.WithError(err).WithField("room_code", code).Error("[QR] Could not encode join link")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render QR code"})
			return
		}
		c.Header("Cache-Control", "public, max-age=3600")
		c.Data(http.StatusOK, "image/png", png)
	}
}
