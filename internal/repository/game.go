package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"goban/internal/domain/game"
	errs "goban/internal/errors"
)

const (
	positionKeyPrefix = "goban:position:"
	movesCollection   = "moves"
	storeTimeout      = 5 * time.Second
)

type RedisPositionStore struct {
	log   *zap.SugaredLogger
	redis *redis.Client
}

func NewRedisPositionStore(log *zap.SugaredLogger, redis *redis.Client) *RedisPositionStore {
	return &RedisPositionStore{
		log:   log,
		redis: redis,
	}
}

func positionKey(boardID string) string {
	return positionKeyPrefix + boardID
}

func (r *RedisPositionStore) SavePosition(ctx context.Context, pos game.Position) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	data, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("marshal position: %w", err)
	}
	if err := r.redis.Set(ctx, positionKey(pos.BoardID), data, 0).Err(); err != nil {
		return fmt.Errorf("save position %s: %w", pos.BoardID, err)
	}
	return nil
}

func (r *RedisPositionStore) LoadPosition(ctx context.Context, boardID string) (game.Position, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	val, err := r.redis.Get(ctx, positionKey(boardID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return game.Position{}, errs.ErrBoardNotFound
	} else if err != nil {
		return game.Position{}, fmt.Errorf("load position %s: %w", boardID, err)
	}

	var pos game.Position
	if err := json.Unmarshal(val, &pos); err != nil {
		r.log.Errorf("corrupt position for board %s: %v", boardID, err)
		return game.Position{}, fmt.Errorf("%w: %v", errs.ErrBadPosition, err)
	}
	return pos, nil
}

type MongoMoveArchive struct {
	log   *zap.SugaredLogger
	mongo *mongo.Database
}

func NewMongoMoveArchive(log *zap.SugaredLogger, mongo *mongo.Database) *MongoMoveArchive {
	return &MongoMoveArchive{
		log:   log,
		mongo: mongo,
	}
}

func (m *MongoMoveArchive) ArchiveMove(ctx context.Context, rec game.MoveRecord) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if _, err := m.mongo.Collection(movesCollection).InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("archive move %d of %s: %w", rec.Number, rec.BoardID, err)
	}
	return nil
}

func (m *MongoMoveArchive) MovesOf(ctx context.Context, boardID, gameID string) ([]game.MoveRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	filter := bson.M{"board_id": boardID, "game_id": gameID}
	opts := options.Find().SetSort(bson.D{{Key: "number", Value: 1}})

	cursor, err := m.mongo.Collection(movesCollection).Find(ctx, filter, opts)
	if err != nil {
		m.log.Error(err)
		return nil, fmt.Errorf("find moves of %s: %w", boardID, err)
	}
	defer cursor.Close(ctx)

	moves := make([]game.MoveRecord, 0)
	if err := cursor.All(ctx, &moves); err != nil {
		return nil, fmt.Errorf("decode moves of %s: %w", boardID, err)
	}
	return moves, nil
}
