package echoweb

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/codegrow/frontend/core/activity"
	"github.com/codegrow/frontend/core/notify"
	metricsvc "github.com/codegrow/frontend/services/metrics"
)

const eventActivityUpdated = "activity"

// hub keeps one notification bus per user with an open event stream, so an XP earned
// in one tab refreshes the feeds open in that user's other tabs only.
type hub struct {
	mu      sync.Mutex
	buses   map[string]*notify.Bus // username -> bus
	streams map[string]int         // username -> open streams
}

func newHub() *hub {
	return &hub{buses: make(map[string]*notify.Bus), streams: make(map[string]int)}
}

// userPublisher notifies the streams of one user.
type userPublisher struct {
	hub      *hub
	username string
}

func (p userPublisher) Publish() {
	p.hub.mu.Lock()
	b := p.hub.buses[p.username]
	p.hub.mu.Unlock()
	if b != nil {
		b.Publish()
	}
}

// publisher returns the Publisher of the user's streams. With no stream open, publishing is a no-op.
func (h *hub) publisher(username string) notify.Publisher {
	return userPublisher{hub: h, username: username}
}

// listen subscribes to the user's notifications until ctx is done.
// The user's bus is dropped along with its last stream.
func (h *hub) listen(ctx context.Context, username string) <-chan struct{} {
	h.mu.Lock()
	b, ok := h.buses[username]
	if !ok {
		b = notify.NewBus()
		h.buses[username] = b
	}
	h.streams[username]++
	updates := b.Listen(ctx)
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.release(username)
	}()
	return updates
}

func (h *hub) release(username string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.streams[username]--
	if h.streams[username] > 0 {
		return
	}
	delete(h.streams, username)
	delete(h.buses, username)
}

// size returns the number of users with an open stream.
func (h *hub) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.buses)
}

type activityApi struct {
	clientFor clientFunc
	hub       *hub
}

func registerActivityAPI(g *echo.Group, jwt echo.MiddlewareFunc, clientFor clientFunc, h *hub, auth *authenticator) {
	api := activityApi{clientFor: clientFor, hub: h}

	ag := g.Group("/activity")
	ag.GET("", api.feed, jwt)
	ag.GET("/events", api.events, middleware.JWTWithConfig(auth.queryConfig()))
}

// feed returns the reconciled activity feed of the user, newest first.
func (api *activityApi) feed(ctx echo.Context) error {
	client, _, err := api.clientFor(ctx)
	if err != nil {
		return err
	}
	records, err := client.Activities(ctx.Request().Context())
	if err != nil {
		return err
	}
	items := activity.Reconcile(records)
	metricsvc.RecordReconciled(len(records), len(items))
	return ctx.JSON(http.StatusOK, items)
}

// events streams one server-sent event per "activity updated" notification of the user,
// until the client goes away.
func (api *activityApi) events(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	updates := api.hub.listen(ctx.Request().Context(), claims.Username)

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	fmt.Fprint(res, ": connected\n\n")
	res.Flush()

	for range updates {
		if _, err := fmt.Fprintf(res, "event: %s\ndata: {}\n\n", eventActivityUpdated); err != nil {
			return nil
		}
		res.Flush()
	}
	return nil
}
