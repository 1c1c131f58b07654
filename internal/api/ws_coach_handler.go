package api

import (
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"easymode/internal/auth"
	"easymode/internal/coach"
	"easymode/internal/config"
)

// WSCoachMessage is one inbound chat message over the socket.
type WSCoachMessage struct {
	Message     string `json:"message"`
	SelfReflect *bool  `json:"selfReflect"`
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// safeWSConn serializes writes; gorilla connections allow one writer at a
// time.
type safeWSConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *safeWSConn) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

func (s *safeWSConn) ReadJSON(v interface{}) error {
	return s.conn.ReadJSON(v)
}

func (s *safeWSConn) Close() error {
	return s.conn.Close()
}

// WSCoachHandler is the live chat socket. The JWT arrives as a header or a
// query parameter (browsers cannot set headers on websocket upgrades). Each
// inbound message runs one full ChatTurn; the conversation history accrues
// server-side for the lifetime of the connection.
func WSCoachHandler(cfg *config.Config, co *coach.Coach) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "missing JWT"}})
			return
		}
		token = strings.TrimPrefix(token, "Bearer ")
		claims, err := auth.ParseJWT(cfg.Server.JWTSecret, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "invalid JWT"}})
			return
		}

		rawConn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("WebSocket upgrade failed:", err)
			return
		}
		conn := &safeWSConn{conn: rawConn}
		defer conn.Close()

		var history []coach.Turn
		for {
			var msg WSCoachMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Message == "" {
				_ = conn.WriteJSON(gin.H{"error": gin.H{"message": "empty message"}})
				continue
			}
			selfReflect := true
			if msg.SelfReflect != nil {
				selfReflect = *msg.SelfReflect
			}

			reply, err := co.ChatTurn(c.Request.Context(), claims.UserID, msg.Message, history, selfReflect)
			if err != nil {
				_ = conn.WriteJSON(gin.H{"error": gin.H{"message": "chat failed"}})
				continue
			}
			history = append(history,
				coach.Turn{Role: "user", Content: msg.Message},
				coach.Turn{Role: "assistant", Content: reply.Reply},
			)
			if err := conn.WriteJSON(reply); err != nil {
				return
			}
		}
	}
}
