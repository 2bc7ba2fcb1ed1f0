package controllers

import (
	"Dilemma/services/flows"
	"Dilemma/services/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Enter the choice view
// @Description Loads the participant's record; has_choice reflects the store, never the cookie
// @Tags choice
// @Produce json
// @Success 200 {object} object{view=string,participant=object,has_choice=boolean,choice=string}
// @Failure 503 {object} object{error=string,kind=string,view=string}
// @Router /api/choice [get]
func GetChoice(fl *flows.Flows) gin.HandlerFunc {
	return func(c *gin.Context) {
		out := fl.EnterChoice(c.Request.Context(), session.FromGin(c))
		if out.Participant == nil {
			render(c, http.StatusOK, out, nil)
			return
		}
		body := participantBody(out)
		body["policy"] = fl.Policy().Choice
		render(c, http.StatusOK, out, body)
	}
}

type choiceRequest struct {
	Choice string `json:"choice" form:"choice"`
}

// @Summary Submit a choice
// @Description Records cooperate or defect for this browser's participant
// @Tags choice
// @Accept json
// @Produce json
// @Param request body object{choice=string} true "cooperate or defect"
// @Success 200 {object} object{view=string,participant=object,has_choice=boolean,choice=string}
// @Failure 400 {object} object{error=string,kind=string,view=string}
// @Failure 409 {object} object{error=string,kind=string,view=string}
// @Router /api/choice [post]
func SubmitChoice(fl *flows.Flows) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req choiceRequest
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		out := fl.SubmitChoice(c.Request.Context(), session.FromGin(c), req.Choice)
		if out.Failed() || out.Participant == nil {
			render(c, http.StatusOK, out, nil)
			return
		}
		render(c, http.StatusOK, out, participantBody(out))
	}
}

// @Summary Reset the choice
// @Description Returns the participant to unset; only on deployments with the resettable policy
// @Tags choice
// @Produce json
// @Success 200 {object} object{view=string,participant=object,has_choice=boolean,choice=string}
// @Failure 409 {object} object{error=string,kind=string,view=string}
// @Router /api/choice [delete]
func ResetChoice(fl *flows.Flows) gin.HandlerFunc {
	return func(c *gin.Context) {
		out := fl.ResetChoice(c.Request.Context(), session.FromGin(c))
		if out.Failed() || out.Participant == nil {
			render(c, http.StatusOK, out, nil)
			return
		}
		render(c, http.StatusOK, out, participantBody(out))
	}
}

// @Summary Leave the room
// @Description Forgets the joined room on this browser
// @Tags choice
// @Produce json
// @Success 200 {object} object{view=string}
// @Failure 503 {object} object{error=string,kind=string,view=string}
// @Router /api/choice/leave [post]
func LeaveRoom(fl *flows.Flows) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, http.StatusOK, fl.LeaveRoom(c.Request.Context(), session.FromGin(c)), nil)
	}
}
