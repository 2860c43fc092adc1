package stream

import (
	"sync"
	"time"

	"codeberg.org/weconnect/server/weconnect/materials"
	"github.com/gorilla/websocket"
)

// change type constants for push deltas
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// an incremental change notification for one owner's material set.
// wire shape: {eventType, new?: record, old?: {id}}
type Delta struct {
	EventType string                    `json:"eventType"`
	New       *materials.MaterialRecord `json:"new,omitempty"`
	Old       *DeletedRecord            `json:"old,omitempty"`
}

// identifies a deleted record on the wire
type DeletedRecord struct {
	ID string `json:"id"`
}

// client connection constants
const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// maximum message size allowed from peer
	maxMessageSize = 4 * 1024

	// per-user websocket connection cap
	maxConnectionsPerUser = 5

	// outgoing message queue per websocket client
	clientSendBuffer = 256

	// in-process subscriber channel buffer; deltas pushed while a dashboard
	// runs its initial fetch sit here until the pump drains them
	subscriberBuffer = 64
)

// cancels an in-process subscription
type CancelFunc func()

type ownerDelta struct {
	ownerID string
	delta   Delta
}

// fans material deltas out to websocket clients and in-process subscribers,
// keyed by record owner
type Hub struct {
	mu sync.RWMutex

	Register   chan *Client
	Unregister chan *Client

	publish  chan ownerDelta
	shutdown chan struct{}

	// ownerID -> clientID -> websocket client
	clients map[string]map[string]*Client

	// ownerID -> subscription id -> delta channel
	subscribers map[string]map[uint64]chan Delta
	nextSubID   uint64

	userConnections map[string]int
}

// a websocket consumer of one owner's delta stream
type Client struct {
	ID      string
	OwnerID string
	UserID  string

	conn *websocket.Conn
	hub  *Hub
	send chan []byte

	closeOnce sync.Once
}
