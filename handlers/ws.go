package handlers

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

// WSHandler pushes update signals to household members watching the
// dashboards, one logical channel per group.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-alive so idle dashboard tabs survive cloud proxies.
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleDisconnect(func(s *melody.Session) {
		groupID, _ := s.Get("group_id")
		log.Printf("🔌 Client disconnected from group: %v", groupID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket error: %v", err)
	})

	return &WSHandler{M: m}
}

func (h *WSHandler) HandleWS(c *gin.Context) {
	groupID := c.Param("group_id")

	err := h.M.HandleRequestWithKeys(c.Writer, c.Request, map[string]interface{}{
		"group_id": groupID,
	})
	if err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

// BroadcastUpdate signals every client watching the group.
func (h *WSHandler) BroadcastUpdate(groupID, updateType, userID string) {
	msg := []byte(`{"type": "` + updateType + `", "user": "` + userID + `"}`)

	err := h.M.BroadcastFilter(msg, func(q *melody.Session) bool {
		id, exists := q.Get("group_id")
		return exists && id == groupID
	})
	if err != nil {
		log.Printf("⚠️ Error broadcasting to group %s: %v", groupID, err)
	}
}
