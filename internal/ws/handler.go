package ws

import (
	"net/http"

	"azellar-portal/internal/delivery/http/middleware"
	"azellar-portal/internal/session"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Handler struct {
	hub    *Hub
	logger *zap.Logger
}

func NewHandler(hub *Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{hub: hub, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// TopicFor is the hub topic a resolved state listens on; empty when the
// caller is not signed in.
func TopicFor(st session.State) string {
	switch {
	case !st.Authenticated || st.User == nil:
		return ""
	case st.SessionID != "":
		return st.SessionID
	default:
		return UserTopic(st.User.ID)
	}
}

func (h *Handler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/ws/session", h.HandleSessionWS)
}

// HandleSessionWS subscribes the socket to the caller's session events, or to
// every event of the user when the caller signed in with a bearer token.
// Closing the socket is the unsubscribe.
func (h *Handler) HandleSessionWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	st, _ := middleware.StateFrom(c)
	topic := TopicFor(st)
	if topic == "" {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Authentication required", nil, nil)
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("ws upgrade failed", zap.Error(err))
			return
		}

		client := NewClient(h.hub, conn, topic)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}
