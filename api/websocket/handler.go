package websocket

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"codeberg.org/weconnect/server/internal/auth"
	"codeberg.org/weconnect/server/internal/errors"
	"codeberg.org/weconnect/server/internal/logger"
	"codeberg.org/weconnect/server/internal/stream"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     stream.CheckOrigin,
}

// StreamHandler upgrades the connection and streams the authenticated
// user's material deltas. Browsers cannot set an Authorization header on
// websocket upgrades, so the JWT arrives as a query parameter.
func StreamHandler(hub *stream.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params ConnectParams
		if err := c.ShouldBindQuery(&params); err != nil {
			errors.BadRequest(c, "token required", err)
			return
		}

		claims, err := auth.ValidateJWT(params.Token)
		if err != nil {
			errors.Unauthorized(c, "invalid or expired token")
			return
		}

		clientID, err := stream.GenerateClientID()
		if err != nil {
			errors.InternalError(c, "failed to generate client id", err)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.ErrorErr(err, "failed to upgrade connection",
				"user_id", claims.UserID,
				"ip", c.ClientIP(),
			)

			return
		}

		// users watch their own record set; owner and user coincide here
		client := stream.NewClient(clientID, claims.UserID, claims.UserID, conn, hub)

		hub.Register <- client

		go client.WritePump()
		go client.ReadPump()

		logger.Info("stream connection established",
			"client_id", clientID,
			"user_id", claims.UserID,
			"ip", c.ClientIP(),
		)
	}
}
