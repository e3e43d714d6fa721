package websocket_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"feedbackboard/internal/app/board"
	"feedbackboard/internal/app/identity"
	"feedbackboard/internal/gateways/websocket"
	"feedbackboard/internal/testutil"
	"feedbackboard/internal/utils"

	"github.com/gin-gonic/gin"
	gws "github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type fakeConn struct {
	events chan utils.Event
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{events: make(chan utils.Event, 16), closed: make(chan struct{})}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	<-f.closed
	return 0, nil, errors.New("closed")
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	select {
	case <-f.closed:
		return errors.New("closed")
	default:
	}
	f.events <- v.(utils.Event)
	return nil
}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) expect(t *testing.T, name string) utils.Event {
	t.Helper()
	select {
	case e := <-f.events:
		if e.Event != name {
			t.Fatalf("expected %s, got %s", name, e.Event)
		}
		return e
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %s", name)
	}
	return utils.Event{}
}

func (f *fakeConn) expectNone(t *testing.T) {
	t.Helper()
	select {
	case e := <-f.events:
		t.Fatalf("unexpected event %s", e.Event)
	case <-time.After(50 * time.Millisecond):
	}
}

func startHub(t *testing.T, bus *utils.EventBus) *websocket.Hub {
	t.Helper()
	hub := websocket.NewHub(zap.NewNop(), nil, nil, bus)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func connect(t *testing.T, hub *websocket.Hub, slug string, owner bool) *fakeConn {
	t.Helper()
	conn := newFakeConn()
	client := websocket.NewClient(hub, conn, slug, owner)
	if !hub.Register(client) {
		t.Fatal("hub is not running")
	}
	go client.Serve()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastIsBoardScoped(t *testing.T) {
	bus := utils.NewEventBus()
	hub := startHub(t, bus)

	owner := connect(t, hub, "acme", true)
	visitor := connect(t, hub, "acme", false)
	other := connect(t, hub, "globex", true)

	bus.Publish(utils.Event{Event: "feedback_submitted", BoardSlug: "acme", OwnerOnly: true})
	owner.expect(t, "feedback_submitted")
	visitor.expectNone(t)

	bus.Publish(utils.Event{Event: "comment_created", BoardSlug: "acme"})
	owner.expect(t, "comment_created")
	visitor.expect(t, "comment_created")
	other.expectNone(t)
}

func TestHubFollowsBoardRename(t *testing.T) {
	bus := utils.NewEventBus()
	hub := startHub(t, bus)
	conn := connect(t, hub, "acme", false)

	bus.Publish(utils.Event{
		Event:     "board_updated",
		BoardSlug: "acme",
		Data:      map[string]interface{}{"slug": "acme-2", "previous_slug": "acme"},
	})
	conn.expect(t, "board_updated")

	bus.Publish(utils.Event{Event: "vote_toggled", BoardSlug: "acme"})
	conn.expectNone(t)
	bus.Publish(utils.Event{Event: "vote_toggled", BoardSlug: "acme-2"})
	conn.expect(t, "vote_toggled")
}

func (f *fakeConn) expectClosed(t *testing.T) {
	t.Helper()
	select {
	case <-f.closed:
	case <-time.After(time.Second):
		t.Fatal("expected the connection to be closed")
	}
}

func TestHubDisconnectsVisitorsWhenBoardTurnsPrivate(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	acme := env.Customer(t, "owner@acme.com", "acme-inc")
	b := env.Board(t, acme, "acme", true, false)
	hub := startHub(t, env.Bus)

	owner := connect(t, hub, "acme", true)
	visitor := connect(t, hub, "acme", false)

	private := false
	if _, err := env.Boards.UpdateBoard(ctx, acme.ID, b.ID, board.UpdateBoardInput{IsPublic: &private}); err != nil {
		t.Fatalf("UpdateBoard failed: %v", err)
	}
	owner.expect(t, "board_updated")
	visitor.expect(t, "board_updated")
	visitor.expectClosed(t)

	env.Submit(t, "acme", "Secret roadmap item")
	owner.expect(t, "feedback_submitted")
	visitor.expectNone(t)
}

func TestHubDisconnectsEveryoneOnBoardDelete(t *testing.T) {
	bus := utils.NewEventBus()
	hub := startHub(t, bus)
	owner := connect(t, hub, "acme", true)
	visitor := connect(t, hub, "acme", false)
	other := connect(t, hub, "globex", false)

	bus.Publish(utils.Event{Event: "board_deleted", BoardSlug: "acme"})
	owner.expect(t, "board_deleted")
	visitor.expect(t, "board_deleted")
	owner.expectClosed(t)
	visitor.expectClosed(t)

	bus.Publish(utils.Event{Event: "comment_created", BoardSlug: "globex"})
	other.expect(t, "comment_created")
}

func TestHubStopClosesClients(t *testing.T) {
	bus := utils.NewEventBus()
	hub := websocket.NewHub(zap.NewNop(), nil, nil, bus)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	conn := newFakeConn()
	client := websocket.NewClient(hub, conn, "acme", false)
	if !hub.Register(client) {
		t.Fatal("hub is not running")
	}
	if st := hub.Check(context.Background()); st.Status != utils.StatusHealthy {
		t.Fatalf("expected healthy hub, got %s", st.Status)
	}
	served := make(chan struct{})
	go func() {
		client.Serve()
		close(served)
	}()

	cancel()
	<-stopped
	select {
	case <-served:
	case <-time.After(time.Second):
		t.Fatal("client was not released on hub stop")
	}
	if hub.Register(websocket.NewClient(hub, newFakeConn(), "acme", false)) {
		t.Fatal("expected register to fail on a stopped hub")
	}
	if st := hub.Check(context.Background()); st.Status != utils.StatusDegraded {
		t.Fatalf("expected degraded health after stop, got %s", st.Status)
	}
}

func TestServeWS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	env := testutil.NewEnv(t)
	acme := env.Customer(t, "owner@acme.com", "acme")
	env.Board(t, acme, "public", true, true)
	env.Board(t, acme, "private", false, true)

	hub := websocket.NewHub(zap.NewNop(), env.Boards, env.Gate, env.Bus)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if email := c.GetHeader("X-Email"); email != "" {
			c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), testutil.As(email)))
		}
		c.Next()
	})
	websocket.RegisterRoutes(r, hub)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	for _, tt := range []struct {
		name   string
		query  string
		email  string
		status int
	}{
		{"missing board", "", "", http.StatusBadRequest},
		{"unknown board", "?board=nope", "", http.StatusNotFound},
		{"private board anonymous", "?board=private", "", http.StatusNotFound},
		{"private board stranger", "?board=private", "someone@else.com", http.StatusNotFound},
	} {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, srv.URL+"/ws"+tt.query, nil)
			if tt.email != "" {
				req.Header.Set("X-Email", tt.email)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}

	t.Run("owner receives pending submissions", func(t *testing.T) {
		header := http.Header{}
		header.Set("X-Email", "owner@acme.com")
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?board=private"
		conn, _, err := gws.DefaultDialer.Dial(url, header)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		defer conn.Close()

		received := make(chan utils.Event, 1)
		go func() {
			var e utils.Event
			if err := conn.ReadJSON(&e); err == nil {
				received <- e
			}
		}()

		// registration completes after the handshake, so keep publishing
		deadline := time.After(2 * time.Second)
		for {
			env.Bus.Publish(utils.Event{Event: "feedback_submitted", BoardSlug: "private", OwnerOnly: true})
			select {
			case e := <-received:
				if e.Event != "feedback_submitted" || e.BoardSlug != "private" {
					t.Fatalf("unexpected event %+v", e)
				}
				return
			case <-deadline:
				t.Fatal("owner never received the event")
			case <-time.After(20 * time.Millisecond):
			}
		}
	})
}
