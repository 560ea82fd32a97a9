package game

import (
	"time"

	"goban/internal/domain/goban"
)

// @name Move
type Move struct {
	Color string `json:"color" validate:"required"`
	X     int    `json:"x" validate:"min=0"`
	Y     int    `json:"y" validate:"min=0"`
}

func (m Move) Point() goban.Point {
	return goban.Pt(m.X, m.Y)
}

// @name MoveResult
type MoveResult struct {
	Number   int           `json:"number"`
	Move     Move          `json:"move"`
	Captured []goban.Point `json:"captured"`
	Ko       *goban.Point  `json:"ko,omitempty"`
	Position Position      `json:"position"`
}

// MoveRecord is one archived move.
type MoveRecord struct {
	ID       string    `json:"id" bson:"_id"`
	BoardID  string    `json:"board_id" bson:"board_id"`
	GameID   string    `json:"game_id" bson:"game_id"`
	Number   int       `json:"number" bson:"number"`
	Color    string    `json:"color" bson:"color"`
	X        int       `json:"x" bson:"x"`
	Y        int       `json:"y" bson:"y"`
	Captured int       `json:"captured" bson:"captured"`
	PlayedAt time.Time `json:"played_at" bson:"played_at"`
}
