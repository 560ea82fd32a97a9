package game

import (
	"time"

	"goban/internal/domain/goban"
)

// Position is the state of the hosted board. It is both the API view and the
// snapshot kept in the position store.
type Position struct {
	BoardID       string       `json:"board_id" bson:"board_id"`
	GameID        string       `json:"game_id" bson:"game_id"` // changes on every reset
	Size          int          `json:"size" bson:"size"`
	Rows          []string     `json:"rows" bson:"rows"`
	Ko            *goban.Point `json:"ko,omitempty" bson:"ko,omitempty"`
	Next          string       `json:"next" bson:"next"` // color to move
	MoveNumber    int          `json:"move_number" bson:"move_number"`
	BlackCaptures int          `json:"black_captures" bson:"black_captures"`
	WhiteCaptures int          `json:"white_captures" bson:"white_captures"`
	UpdatedAt     time.Time    `json:"updated_at" bson:"updated_at"`
}

type ChainInfo struct {
	Point     goban.Point   `json:"point"`
	Color     string        `json:"color"`
	Stones    []goban.Point `json:"stones"`
	Liberties []goban.Point `json:"liberties"`
	Alive     bool          `json:"alive"`
}

type CheckResponse struct {
	Legal  bool   `json:"legal"`
	Reason string `json:"reason,omitempty"`
}
