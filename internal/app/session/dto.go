package session

import (
	"courierquest/internal/domain/courier"
	"courierquest/internal/domain/weather"

	"courierquest/internal/app/ports"
)

type CommandType string

const (
	CmdMove     CommandType = "move"
	CmdInteract CommandType = "interact"
	CmdAccept   CommandType = "accept"
	CmdDeliver  CommandType = "deliver"
	CmdSort     CommandType = "sort"
	CmdSave     CommandType = "save"
	CmdLoad     CommandType = "load"
	CmdUndo     CommandType = "undo"
)

type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// Command is one player intent. Fields beyond Type are read per kind:
// Direction for move, OrderID for accept/deliver, SortMode for sort,
// Slot for save/load.
type Command struct {
	Type      CommandType `json:"type"`
	Direction Direction   `json:"direction,omitempty"`
	OrderID   string      `json:"order_id,omitempty"`
	SortMode  string      `json:"sort_mode,omitempty"`
	Slot      int         `json:"slot,omitempty"`
}

const (
	SortModePriority = "priority"
	SortModeDeadline = "deadline"
	SortModeDistance = "distance"
)

// Result reports a command's disposition. A rejected command is a
// no-op with a user-facing message; state is untouched.
type Result struct {
	Applied bool   `json:"applied"`
	Message string `json:"message,omitempty"`
}

type Notice struct {
	Message  string  `json:"message"`
	GameTime float64 `json:"game_time"`
}

type OrderView struct {
	ID            string           `json:"id"`
	Pickup        courier.Position `json:"pickup"`
	Dropoff       courier.Position `json:"dropoff"`
	Payout        int              `json:"payout"`
	Weight        int              `json:"weight"`
	Priority      int              `json:"priority"`
	Status        courier.Status   `json:"status"`
	TimeRemaining float64          `json:"time_remaining"`
}

type WeatherView struct {
	Condition      weather.Condition `json:"condition"`
	Intensity      float64           `json:"intensity"`
	Transitioning  bool              `json:"transitioning"`
	SpeedMult      float64           `json:"speed_multiplier"`
	StaminaPenalty float64           `json:"stamina_penalty"`
}

// Snapshot is the read-only state view handed to the presentation
// layer. Everything in it is copied; mutating it cannot touch the
// simulation.
type Snapshot struct {
	Player        courier.PlayerState   `json:"player"`
	MovementState courier.MovementState `json:"movement_state"`
	Speed         float64               `json:"speed"`
	CarriedWeight int                   `json:"carried_weight"`

	Weather WeatherView `json:"weather"`

	GameTime    float64 `json:"game_time"`
	MaxGameTime float64 `json:"max_game_time"`
	Goal        int     `json:"goal"`
	CityName    string  `json:"city_name"`

	ActiveOrders   []OrderView `json:"active_orders"`
	Inventory      []OrderView `json:"inventory"`
	PendingCount   int         `json:"pending_count"`
	CompletedCount int         `json:"completed_count"`
	ExpiredCount   int         `json:"expired_count"`

	UndoDepth  int              `json:"undo_depth"`
	Notices    []Notice         `json:"notices"`
	DataSource ports.DataSource `json:"data_source"`

	GameOver   bool `json:"game_over"`
	Victory    bool `json:"victory"`
	FinalScore int  `json:"final_score,omitempty"`
}
