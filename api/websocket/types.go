package websocket

// query parameters accepted on websocket upgrade
type ConnectParams struct {
	Token string `form:"token" binding:"required"`
}
