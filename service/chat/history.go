package chat

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"relaychat/logger"
	midsec "relaychat/middleware/security"
	"relaychat/module/chat/message"
)

// HandleHistory serves GET /messages?room=<name>: up to the 100 most
// recent messages for the room, oldest first. Runs behind the auth
// middleware.
func (s *Server) HandleHistory(c *gin.Context) {
	identity, ok := midsec.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authorization token required."})
		return
	}

	room := c.Query("room")
	if room == "" {
		logger.Warn("[chat] room parameter missing for message fetch")
		c.JSON(http.StatusBadRequest, gin.H{"message": "Room parameter is required."})
		return
	}

	logger.Infof("[chat] fetching messages for user: %s in room: %s", identity.Username, room)

	ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout)
	defer cancel()
	msgs, err := s.gw.store.RecentByRoom(ctx, room, message.HistoryLimit)
	if err != nil {
		logger.Errorf("[chat] error fetching messages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching messages."})
		return
	}
	c.JSON(http.StatusOK, msgs)
}
