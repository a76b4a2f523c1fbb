package realtime

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"

	socketio "github.com/googollee/go-socket.io"
)

const namespace = "/"

var errUnauthenticated = errors.New("unauthenticated socket")

// Authenticate resolves a bearer token to a user id.
type Authenticate func(token string) (string, error)

// Lifecycle is told when a user's first socket opens and last socket closes.
type Lifecycle interface {
	Connected(ctx context.Context, userID string)
	Disconnected(ctx context.Context, userID string)
}

type session struct {
	userID string
}

// Hub delivers events to socket.io rooms. Each user may hold several sockets;
// topic membership is tracked per user so sockets opened later rejoin them.
type Hub struct {
	server       *socketio.Server
	authenticate Authenticate
	lifecycle    Lifecycle

	mu     sync.Mutex
	conns  map[string]map[string]socketio.Conn
	topics map[string]map[string]struct{}
}

func NewHub(authenticate Authenticate) *Hub {
	h := &Hub{
		server:       socketio.NewServer(nil),
		authenticate: authenticate,
		conns:        make(map[string]map[string]socketio.Conn),
		topics:       make(map[string]map[string]struct{}),
	}
	h.server.OnConnect(namespace, h.onConnect)
	h.server.OnDisconnect(namespace, h.onDisconnect)
	h.server.OnError(namespace, func(conn socketio.Conn, err error) {
		log.Printf("[Realtime] Socket error: %v", err)
	})
	return h
}

// SetLifecycle injects the presence hooks. Must be called before Start.
func (h *Hub) SetLifecycle(l Lifecycle) {
	h.lifecycle = l
}

// Handler serves the socket.io endpoint.
func (h *Hub) Handler() http.Handler {
	return h.server
}

func (h *Hub) Start() {
	go func() {
		if err := h.server.Serve(); err != nil {
			log.Printf("[Realtime] Server stopped: %v", err)
		}
	}()
	log.Println("[Realtime] Socket server started")
}

func (h *Hub) Stop() error {
	return h.server.Close()
}

func tokenOf(conn socketio.Conn) string {
	u := conn.URL()
	if token := u.Query().Get("token"); token != "" {
		return token
	}
	header := conn.RemoteHeader().Get("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}

func (h *Hub) onConnect(conn socketio.Conn) error {
	token := tokenOf(conn)
	if token == "" {
		return errUnauthenticated
	}
	userID, err := h.authenticate(token)
	if err != nil {
		return errUnauthenticated
	}
	conn.SetContext(&session{userID: userID})

	h.mu.Lock()
	first := len(h.conns[userID]) == 0
	if first {
		h.conns[userID] = make(map[string]socketio.Conn)
	}
	h.conns[userID][conn.ID()] = conn
	for topic := range h.topics[userID] {
		conn.Join(topic)
	}
	h.mu.Unlock()

	if first && h.lifecycle != nil {
		h.lifecycle.Connected(context.Background(), userID)
	}
	return nil
}

func (h *Hub) onDisconnect(conn socketio.Conn, reason string) {
	s, ok := conn.Context().(*session)
	if !ok {
		return
	}

	h.mu.Lock()
	delete(h.conns[s.userID], conn.ID())
	last := len(h.conns[s.userID]) == 0
	if last {
		delete(h.conns, s.userID)
	}
	h.mu.Unlock()

	if last && h.lifecycle != nil {
		h.lifecycle.Disconnected(context.Background(), s.userID)
	}
}

// Emit sends event to every socket in topic.
func (h *Hub) Emit(topic, event string, payload any) {
	h.server.BroadcastToRoom(namespace, topic, event, payload)
}

// Broadcast sends event to every connected socket.
func (h *Hub) Broadcast(event string, payload any) {
	h.server.BroadcastToNamespace(namespace, event, payload)
}

// Join subscribes all of userID's sockets to topic.
func (h *Hub) Join(userID, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.topics[userID] == nil {
		h.topics[userID] = make(map[string]struct{})
	}
	h.topics[userID][topic] = struct{}{}
	for _, conn := range h.conns[userID] {
		conn.Join(topic)
	}
}

// Leave unsubscribes all of userID's sockets from topic.
func (h *Hub) Leave(userID, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.topics[userID], topic)
	if len(h.topics[userID]) == 0 {
		delete(h.topics, userID)
	}
	for _, conn := range h.conns[userID] {
		conn.Leave(topic)
	}
}

// Close unsubscribes every user from topic. Sockets opened later do not rejoin it.
func (h *Hub) Close(topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, set := range h.topics {
		if _, ok := set[topic]; !ok {
			continue
		}
		delete(set, topic)
		if len(set) == 0 {
			delete(h.topics, userID)
		}
		for _, conn := range h.conns[userID] {
			conn.Leave(topic)
		}
	}
}

func (h *Hub) subscribed(userID, topic string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.topics[userID][topic]
	return ok
}
