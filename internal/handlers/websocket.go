package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"casino-backend/internal/models"
)

const (
	writeWait      = 10 * time.Second
	clientBuffer   = 16
	broadcastQueue = 100
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	MessageBetSettled = "BET_SETTLED"
	MessagePing       = "PING"
	MessagePong       = "PONG"
)

type Client struct {
	conn   *websocket.Conn
	send   chan *Message
	closed chan struct{}
}

// FeedHub fans settled bets out to every connected websocket client. It
// satisfies services.Broadcaster.
type FeedHub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	stopped    chan struct{}
	log        logrus.FieldLogger
}

func NewFeedHub(log logrus.FieldLogger) *FeedHub {
	return &FeedHub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, broadcastQueue),
		stopped:    make(chan struct{}),
		log:        log,
	}
}

// Run owns the client set until ctx is cancelled.
func (hub *FeedHub) Run(ctx context.Context) {
	defer close(hub.stopped)

	for {
		select {
		case <-ctx.Done():
			for client := range hub.clients {
				hub.drop(client)
			}
			return

		case client := <-hub.register:
			hub.clients[client] = true
			hub.log.WithField("clients", len(hub.clients)).Debug("Feed client registered")

		case client := <-hub.unregister:
			if hub.clients[client] {
				hub.drop(client)
				hub.log.WithField("clients", len(hub.clients)).Debug("Feed client unregistered")
			}

		case message := <-hub.broadcast:
			for client := range hub.clients {
				select {
				case client.send <- message:
				default:
					hub.log.Warn("Feed client too slow, disconnecting")
					hub.drop(client)
				}
			}
		}
	}
}

func (hub *FeedHub) drop(client *Client) {
	delete(hub.clients, client)
	close(client.closed)
}

// BroadcastBet never blocks the bet path; when the queue is full the event is
// dropped.
func (hub *FeedHub) BroadcastBet(h *models.BetHistory) {
	select {
	case hub.broadcast <- &Message{Type: MessageBetSettled, Data: h}:
	default:
		hub.log.WithField("bet_id", h.ID).Warn("Feed queue full, dropping event")
	}
}

func (hub *FeedHub) HandleFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		hub.log.WithError(err).Warn("Failed to upgrade to WebSocket")
		return
	}

	client := &Client{
		conn:   conn,
		send:   make(chan *Message, clientBuffer),
		closed: make(chan struct{}),
	}

	ctx := c.Request.Context()
	select {
	case hub.register <- client:
	case <-hub.stopped:
		conn.Close()
		return
	case <-ctx.Done():
		conn.Close()
		return
	}

	go client.writeLoop(hub.log)

	defer func() {
		select {
		case hub.unregister <- client:
		case <-hub.stopped:
		case <-ctx.Done():
		}
		conn.Close()
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				hub.log.WithError(err).Warn("WebSocket error")
			}
			return
		}

		if msg.Type == MessagePing {
			pong := &Message{Type: MessagePong, Data: gin.H{"timestamp": time.Now().Unix()}}
			select {
			case client.send <- pong:
			case <-client.closed:
				return
			default:
			}
		}
	}
}

// writeLoop is the only writer on the connection.
func (client *Client) writeLoop(log logrus.FieldLogger) {
	defer client.conn.Close()

	for {
		select {
		case msg := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteJSON(msg); err != nil {
				log.WithError(err).Debug("Feed write failed")
				return
			}
		case <-client.closed:
			client.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}
