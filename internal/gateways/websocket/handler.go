package websocket

import (
	"context"
	"net/http"
	"time"

	"feedbackboard/internal/app/board"
	"feedbackboard/internal/app/identity"
	"feedbackboard/internal/apperr"
	"feedbackboard/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// BoardAccess resolves a board the caller may observe.
type BoardAccess interface {
	GetVisibleBoard(ctx context.Context, id identity.Identity, slug string) (*board.Board, error)
}

type OwnerCheck interface {
	IsOwnerOf(ctx context.Context, id identity.Identity, ownerID string) (bool, error)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS godoc
// @Summary Subscribe to board events
// @Description Upgrades to a websocket streaming events of one board. Owners also receive events about unapproved feedback.
// @Tags realtime
// @Param board query string true "Board slug"
// @Param session_key query string false "Session key"
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /ws [get]
func (h *Hub) ServeWS(c *gin.Context) {
	slug := c.Query("board")
	if slug == "" {
		h.logger.Warnw("WebSocket connection rejected: board missing",
			"client_ip", c.ClientIP(),
			"user_agent", c.GetHeader("User-Agent"),
		)
		utils.RespondError(c, h.logger, apperr.Validation("board is required"))
		return
	}

	ctx := c.Request.Context()
	id := identity.FromContext(ctx)

	b, err := h.boards.GetVisibleBoard(ctx, id, slug)
	if err != nil {
		h.logger.Warnw("WebSocket connection rejected: board not visible",
			"board", slug,
			"identity", id.String(),
			"client_ip", c.ClientIP(),
		)
		utils.RespondError(c, h.logger, err)
		return
	}

	isOwner, err := h.owners.IsOwnerOf(ctx, id, b.OwnerID)
	if err != nil {
		utils.RespondError(c, h.logger, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorw("Failed to upgrade connection", "board", slug, "error", err)
		return
	}

	client := NewClient(h, conn, b.Slug, isOwner)
	h.logger.Infow("WebSocket connection established",
		"client_id", client.ID,
		"board", client.BoardSlug,
		"owner", client.IsOwner,
		"client_ip", c.ClientIP(),
		"user_agent", c.GetHeader("User-Agent"),
	)

	if !h.Register(client) {
		conn.Close()
		return
	}
	client.Serve()
}

// Serve pumps hub events to the connection while draining reads, and
// returns once either side goes away.
func (cl *Client) Serve() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		cl.writePump()
	}()

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			break
		}
	}
	cl.hub.Unregister(cl)
	cl.conn.Close()
	<-done
}

func (cl *Client) writePump() {
	defer cl.conn.Close()
	for event := range cl.send {
		if dc, ok := cl.conn.(interface{ SetWriteDeadline(time.Time) error }); ok {
			_ = dc.SetWriteDeadline(time.Now().Add(writeWait))
		}
		if err := cl.conn.WriteJSON(event); err != nil {
			cl.hub.logger.Debugw("WebSocket write failed", "client_id", cl.ID, "error", err)
			cl.conn.Close()
			// the hub closes send once the read loop unregisters us
			for range cl.send {
			}
			return
		}
	}
}
