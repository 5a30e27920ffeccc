package v1

import "github.com/gin-gonic/gin"

func (h *handlerImpl) HandleWebsocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to upgrade connection")
		return
	}

	// Blocks for the lifetime of the connection; gin runs each
	// request on its own goroutine.
	h.hub.ServeConn(conn)
}
