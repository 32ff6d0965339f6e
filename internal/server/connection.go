package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/hearthside/holdem/internal/engine"
	"github.com/hearthside/holdem/internal/service"
	"github.com/hearthside/holdem/internal/store"
	"github.com/hearthside/holdem/internal/table"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	userID    string
	tableID   string
	seatID    string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	server    *Server
	svc       *service.Service
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, server *Server, svc *service.Service) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
		server: server,
		svc:    svc,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetUser associates this connection with an authenticated user
func (c *Connection) SetUser(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = userID
}

// GetUser returns the associated user ID
func (c *Connection) GetUser() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

// SetSeat associates this connection with a table and seat
func (c *Connection) SetSeat(tableID, seatID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tableID = tableID
	c.seatID = seatID
}

// GetTable returns the associated table ID
func (c *Connection) GetTable() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tableID
}

// GetSeat returns the associated seat ID
func (c *Connection) GetSeat() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seatID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "user", c.GetUser())

	switch msg.Type {
	case MessageTypeAuth:
		var data AuthData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse auth data")
			return
		}
		c.handleAuth(data)

	case MessageTypeCreateTable:
		var data CreateTableData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse create table data")
			return
		}
		c.handleCreateTable(data)

	case MessageTypeJoinTable:
		var data JoinTableData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse join table data")
			return
		}
		c.handleJoinTable(data)

	case MessageTypeStartHand:
		var data StartHandData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse start hand data")
			return
		}
		c.handleStartHand(data)

	case MessageTypeAction:
		var data ActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse action data")
			return
		}
		c.handleAction(data)

	case MessageTypeGetState:
		var data GetStateData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse get state data")
			return
		}
		c.handleGetState(data)

	case MessageTypeListTables:
		c.handleListTables()

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+string(msg.Type))
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}

// sendServiceError maps a service error to a machine-readable code
func (c *Connection) sendServiceError(err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.sendError("not_found", err.Error())
	case errors.Is(err, store.ErrVersionConflict):
		c.sendError("version_conflict", err.Error())
	case errors.Is(err, service.ErrNotAuthorized):
		c.sendError("not_authorized", err.Error())
	case errors.Is(err, table.ErrTableFull):
		c.sendError("table_full", err.Error())
	case errors.Is(err, table.ErrTableFinished):
		c.sendError("table_finished", err.Error())
	case errors.Is(err, table.ErrAlreadySeated):
		c.sendError("already_seated", err.Error())
	default:
		c.sendError(engine.Kind(err), err.Error())
	}
}

func (c *Connection) handleAuth(data AuthData) {
	c.logger.Info("Auth request", "userId", data.UserID)

	if data.UserID == "" {
		c.sendError("invalid_auth", "User ID required")
		return
	}

	c.SetUser(data.UserID)

	response, _ := NewMessage(MessageTypeAuthOK, AuthOKData{UserID: data.UserID})
	_ = c.SendMessage(response)
}

func (c *Connection) handleCreateTable(data CreateTableData) {
	userID := c.GetUser()
	if userID == "" {
		c.sendError("not_authenticated", "Must authenticate first")
		return
	}

	t, err := c.svc.CreateTable(userID, data.FamilyID, data.Name, data.Variant,
		data.SmallBlind, data.StartingChips)
	if err != nil {
		c.sendServiceError(err)
		return
	}

	response, _ := NewMessage(MessageTypeTableCreated, t)
	_ = c.SendMessage(response)
}

func (c *Connection) handleJoinTable(data JoinTableData) {
	c.logger.Info("Join table request", "tableId", data.TableID, "user", c.GetUser())

	userID := c.GetUser()
	if userID == "" {
		c.sendError("not_authenticated", "Must authenticate first")
		return
	}

	seat, err := c.svc.JoinTable(data.TableID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.sendError("table_not_found", err.Error())
			return
		}
		c.sendServiceError(err)
		return
	}

	c.SetSeat(data.TableID, seat.ID)

	response, _ := NewMessage(MessageTypeSeatAssigned, SeatAssignedData{
		TableID: data.TableID,
		Seat:    seat,
	})
	_ = c.SendMessage(response)

	joined, _ := NewMessage(MessageTypePlayerJoined, PlayerJoinedData{
		TableID: data.TableID,
		UserID:  userID,
		SeatNo:  seat.SeatNo,
	})
	c.server.BroadcastToTable(data.TableID, joined)
}

func (c *Connection) handleStartHand(data StartHandData) {
	if c.GetUser() == "" {
		c.sendError("not_authenticated", "Must authenticate first")
		return
	}

	tableID := data.TableID
	if tableID == "" {
		tableID = c.GetTable()
	}
	if tableID == "" {
		c.sendError("invalid_message", "Table ID required")
		return
	}

	if _, err := c.svc.StartHand(tableID); err != nil {
		c.sendServiceError(err)
		return
	}

	// Each seated client gets its own view so hole cards stay private
	c.server.BroadcastStateToTable(tableID, MessageTypeHandStarted)
}

func (c *Connection) handleAction(data ActionData) {
	if c.GetUser() == "" {
		c.sendError("not_authenticated", "Must authenticate first")
		return
	}

	seatID := data.SeatID
	if seatID == "" {
		seatID = c.GetSeat()
	}
	if seatID == "" {
		c.sendError("invalid_message", "Seat ID required")
		return
	}

	result, err := c.svc.Act(data.HandID, seatID, data.Action, data.Amount)
	if err != nil {
		c.sendServiceError(err)
		return
	}

	response, _ := NewMessage(MessageTypeActionResult, result)
	_ = c.SendMessage(response)

	acted, _ := NewMessage(MessageTypePlayerActed, PlayerActedData{
		HandID: data.HandID,
		SeatNo: result.SeatNo,
		Result: result,
	})
	c.server.BroadcastToTable(c.GetTable(), acted)

	if result.Status == engine.StatusComplete {
		settled, _ := NewMessage(MessageTypeHandSettled, HandSettledData{
			HandID:      data.HandID,
			Pot:         result.Pot,
			WinnerSeats: result.WinnerSeats,
			WinningHand: result.WinningHand,
		})
		c.server.BroadcastToTable(c.GetTable(), settled)
	}
}

func (c *Connection) handleGetState(data GetStateData) {
	seatID := data.SeatID
	if seatID == "" {
		seatID = c.GetSeat()
	}

	var (
		state *service.StateView
		err   error
	)
	switch {
	case data.HandID != "":
		state, err = c.svc.GetStateByHand(data.HandID, seatID)
	case data.TableID != "":
		state, err = c.svc.GetStateByTable(data.TableID, seatID)
	default:
		c.sendError("invalid_message", "Table or hand ID required")
		return
	}
	if err != nil {
		c.sendServiceError(err)
		return
	}

	response, _ := NewMessage(MessageTypeState, StateData{State: state})
	_ = c.SendMessage(response)
}

func (c *Connection) handleListTables() {
	c.logger.Info("List tables request", "user", c.GetUser())

	tables, err := c.svc.ListTables()
	if err != nil {
		c.sendServiceError(err)
		return
	}

	response, _ := NewMessage(MessageTypeTableList, TableListData{Tables: tables})
	_ = c.SendMessage(response)
}
