package server

import (
	"encoding/json"
	"time"

	"github.com/hearthside/holdem/internal/engine"
	"github.com/hearthside/holdem/internal/service"
	"github.com/hearthside/holdem/internal/table"
)

// MessageType identifies a wire message
type MessageType string

const (
	// Client -> Server
	MessageTypeAuth        MessageType = "auth"
	MessageTypeCreateTable MessageType = "create_table"
	MessageTypeJoinTable   MessageType = "join_table"
	MessageTypeStartHand   MessageType = "start_hand"
	MessageTypeAction      MessageType = "action"
	MessageTypeGetState    MessageType = "get_state"
	MessageTypeListTables  MessageType = "list_tables"

	// Server -> Client
	MessageTypeAuthOK       MessageType = "auth_ok"
	MessageTypeTableCreated MessageType = "table_created"
	MessageTypeSeatAssigned MessageType = "seat_assigned"
	MessageTypePlayerJoined MessageType = "player_joined"
	MessageTypeHandStarted  MessageType = "hand_started"
	MessageTypeActionResult MessageType = "action_result"
	MessageTypePlayerActed  MessageType = "player_acted"
	MessageTypeHandSettled  MessageType = "hand_settled"
	MessageTypeState        MessageType = "state"
	MessageTypeTableList    MessageType = "table_list"
	MessageTypeError        MessageType = "error"
)

// Message is the wire envelope
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage wraps a payload in an envelope stamped with the current time
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client -> Server payloads

type AuthData struct {
	UserID string `json:"userId"`
}

type CreateTableData struct {
	FamilyID      string `json:"familyId,omitempty"`
	Name          string `json:"name"`
	Variant       string `json:"variant,omitempty"`
	SmallBlind    int    `json:"smallBlind,omitempty"`
	StartingChips int    `json:"startingChips,omitempty"`
}

type JoinTableData struct {
	TableID string `json:"tableId"`
}

type StartHandData struct {
	TableID string `json:"tableId"`
}

type ActionData struct {
	HandID string            `json:"handId"`
	SeatID string            `json:"seatId,omitempty"` // defaults to the connection's seat
	Action engine.ActionKind `json:"action"`
	Amount int               `json:"amount,omitempty"`
}

type GetStateData struct {
	TableID string `json:"tableId,omitempty"`
	HandID  string `json:"handId,omitempty"`
	SeatID  string `json:"seatId,omitempty"` // defaults to the connection's seat
}

// Server -> Client payloads

type AuthOKData struct {
	UserID string `json:"userId"`
}

type SeatAssignedData struct {
	TableID string      `json:"tableId"`
	Seat    *table.Seat `json:"seat"`
}

type PlayerJoinedData struct {
	TableID string `json:"tableId"`
	UserID  string `json:"userId"`
	SeatNo  int    `json:"seatNo"`
}

type PlayerActedData struct {
	HandID string         `json:"handId"`
	SeatNo int            `json:"seatNo"`
	Result *engine.Result `json:"result"`
}

type HandSettledData struct {
	HandID      string `json:"handId"`
	Pot         int    `json:"pot"`
	WinnerSeats []int  `json:"winnerSeats"`
	WinningHand string `json:"winningHand"`
}

type TableListData struct {
	Tables []*table.Table `json:"tables"`
}

type StateData struct {
	State *service.StateView `json:"state"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
