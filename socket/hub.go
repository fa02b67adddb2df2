package socket

import (
	"encoding/json"
	"sync"

	"triviaboard/internal/quiz/model"
	"triviaboard/pkg/logger"

	"github.com/gorilla/websocket"
)

const (
	SnapshotType    = "SNAPSHOT"     // Full leaderboard for the year, sent on join
	ScoreUpdateType = "SCORE_UPDATE" // One player's score changed
)

type WSMessage struct {
	Type    string          `json:"type"`
	Year    string          `json:"year"`
	Payload json.RawMessage `json:"payload"`
}

// LeaderboardSource supplies the snapshot a client receives when it joins.
type LeaderboardSource interface {
	GetLeaderboard(year string) []model.PlayerScore
}

// Hub fans score changes out to the clients watching a year. Rooms is only
// written by Run; mu guards it for readers outside the loop.
type Hub struct {
	Rooms      map[string]map[*Client]bool
	Register   chan *Client
	Unregister chan *Client

	source LeaderboardSource
	mu     sync.Mutex

	// pending holds queued broadcasts in arrival order; wake nudges Run.
	queueMu sync.Mutex
	pending []WSMessage
	wake    chan struct{}

	// OnClientsChanged, if set, is called from Run with the delta.
	OnClientsChanged func(delta int)
}

type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	Year string
	Send chan []byte
}

func NewHub(source LeaderboardSource) *Hub {
	return &Hub{
		Rooms:      make(map[string]map[*Client]bool),
		wake:       make(chan struct{}, 1),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		source:     source,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if h.Rooms[client.Year] == nil {
				h.Rooms[client.Year] = make(map[*Client]bool)
			}
			h.Rooms[client.Year][client] = true
			h.mu.Unlock()
			h.clientsChanged(1)

			snapshot, err := h.snapshot(client.Year)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling leaderboard snapshot for %s: %v", client.Year, err)
				continue
			}
			select {
			case client.Send <- snapshot:
			default:
				logger.Sugar.Warnf("Client for year %s could not take its snapshot", client.Year)
			}

		case client := <-h.Unregister:
			h.remove(client)

		case <-h.wake:
			h.queueMu.Lock()
			batch := h.pending
			h.pending = nil
			h.queueMu.Unlock()

			for _, msg := range batch {
				h.broadcast(msg)
			}
		}
	}
}

func (h *Hub) broadcast(msg WSMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Sugar.Errorf("Error marshalling broadcast message: %v", err)
		return
	}

	h.mu.Lock()
	clientsToSend := make([]*Client, 0, len(h.Rooms[msg.Year]))
	for client := range h.Rooms[msg.Year] {
		clientsToSend = append(clientsToSend, client)
	}
	h.mu.Unlock()

	for _, client := range clientsToSend {
		select {
		case client.Send <- payload:
		default:
			// Lagging client: drop it here, Run is the only receiver of Unregister.
			logger.Sugar.Warnf("Leaderboard client for year %s is lagging. Unregistering.", client.Year)
			h.remove(client)
		}
	}
}

// NotifyScore queues a score change for every client watching year. It
// never blocks, so the repository can call it under its write lock; queued
// changes go out in the order they were queued.
func (h *Hub) NotifyScore(year string, player model.PlayerScore) {
	payload, err := json.Marshal(player)
	if err != nil {
		logger.Sugar.Errorf("Error marshalling score update: %v", err)
		return
	}

	h.queueMu.Lock()
	h.pending = append(h.pending, WSMessage{Type: ScoreUpdateType, Year: year, Payload: payload})
	h.queueMu.Unlock()

	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// ClientCount reports how many clients are watching year.
func (h *Hub) ClientCount(year string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.Rooms[year])
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	if _, ok := h.Rooms[client.Year][client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.Rooms[client.Year], client)
	close(client.Send)
	if len(h.Rooms[client.Year]) == 0 {
		delete(h.Rooms, client.Year)
		logger.Sugar.Debugf("Closed empty leaderboard room: %s", client.Year)
	}
	h.mu.Unlock()
	h.clientsChanged(-1)
}

func (h *Hub) snapshot(year string) ([]byte, error) {
	board, err := json.Marshal(h.source.GetLeaderboard(year))
	if err != nil {
		return nil, err
	}
	return json.Marshal(WSMessage{Type: SnapshotType, Year: year, Payload: board})
}

func (h *Hub) clientsChanged(delta int) {
	if h.OnClientsChanged != nil {
		h.OnClientsChanged(delta)
	}
}
