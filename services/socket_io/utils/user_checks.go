package socketio_utils

import (
	"Dilemma/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zishang520/socket.io/v2/socket"
)

// VerifyStreamConnection checks the stream token sent in the handshake auth
// as {authorization: "Bearer <token>"} and returns the room it is bound to.
func VerifyStreamConnection(client *socket.Socket, key []byte) (*middleware.StreamClaims, bool) {
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		logrus.Warn("[CONNECT] No auth data provided in handshake")
		client.Emit("error", gin.H{"error": "Authentication failed: missing auth data"})
		return nil, false
	}

	token, exists := authData["authorization"].(string)
	if !exists {
		logrus.Warn("[CONNECT] No authorization token provided in handshake")
		client.Emit("error", gin.H{"error": "Authentication failed: missing authorization token"})
		return nil, false
	}

	claims, err := middleware.ParseStreamToken(key, token)
	if err != nil {
		logrus.WithError(err).Warn("[CONNECT] Rejected stream token")
		client.Emit("error", gin.H{
			"error": "Authentication failed: invalid stream token. Set it on the 'authorization' field with the 'Bearer ' prefix.",
		})
		return nil, false
	}
	return claims, true
}
