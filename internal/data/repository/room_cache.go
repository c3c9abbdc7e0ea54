package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cinema-reservation/internal/data/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// cachedRoomRepository is a read-through Redis cache in front of the room
// repository. Room layouts are immutable for the engine, so serving a
// cached layout can never produce a stale coordinate space.
type cachedRoomRepository struct {
	inner RoomRepository
	rdb   *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedRoomRepository(inner RoomRepository, rdb *redis.Client, ttl time.Duration, log *zap.Logger) RoomRepository {
	return &cachedRoomRepository{
		inner: inner,
		rdb:   rdb,
		ttl:   ttl,
		log:   log.With(zap.String("repository", "room_cache")),
	}
}

func roomCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("room:layout:%s", id.String())
}

func (r *cachedRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	key := roomCacheKey(id)

	cached, err := r.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var room entity.Room
		if err := json.Unmarshal(cached, &room); err == nil {
			return &room, nil
		}
		// corrupt entry, fall through to the database
		r.rdb.Del(ctx, key)
	} else if err != redis.Nil {
		// cache unavailable is not fatal, the database stays the source of truth
		r.log.Warn("Room cache read failed", zap.Error(err), zap.String("room_id", id.String()))
	}

	room, err := r.inner.FindByID(ctx, id)
	if err != nil || room == nil {
		return room, err
	}

	payload, err := json.Marshal(room)
	if err == nil {
		if err := r.rdb.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			r.log.Warn("Room cache write failed", zap.Error(err), zap.String("room_id", id.String()))
		}
	}

	return room, nil
}
