package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feline-finder/internal/domain"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PresetRepository keeps each staff user's named view presets as one Redis hash
// (field = preset name, value = encoded preference). Every save refreshes the TTL.
type PresetRepository interface {
	Save(ctx context.Context, orgID, userID uuid.UUID, name string, payload []byte) error
	Load(ctx context.Context, orgID, userID uuid.UUID, name string) ([]byte, error)
	List(ctx context.Context, orgID, userID uuid.UUID) (map[string][]byte, error)
	Delete(ctx context.Context, orgID, userID uuid.UUID, name string) error
}

type presetRepository struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewPresetRepository(rdb *redis.Client, ttl time.Duration, log *zap.Logger) PresetRepository {
	return &presetRepository{
		rdb: rdb,
		ttl: ttl,
		log: log.With(zap.String("repository", "preset")),
	}
}

func presetKey(orgID, userID uuid.UUID) string {
	return fmt.Sprintf("view-presets:%s:%s", orgID, userID)
}

func (r *presetRepository) Save(ctx context.Context, orgID, userID uuid.UUID, name string, payload []byte) error {
	key := presetKey(orgID, userID)
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, name, payload)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		r.log.Error("Failed to save preset",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("preset", name),
		)
		return fmt.Errorf("save preset %q: %w", name, err)
	}
	return nil
}

func (r *presetRepository) Load(ctx context.Context, orgID, userID uuid.UUID, name string) ([]byte, error) {
	data, err := r.rdb.HGet(ctx, presetKey(orgID, userID), name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NotFoundError{Resource: "preset", ID: name}
	}
	if err != nil {
		r.log.Error("Failed to load preset",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("preset", name),
		)
		return nil, fmt.Errorf("load preset %q: %w", name, err)
	}
	return data, nil
}

func (r *presetRepository) List(ctx context.Context, orgID, userID uuid.UUID) (map[string][]byte, error) {
	all, err := r.rdb.HGetAll(ctx, presetKey(orgID, userID)).Result()
	if err != nil {
		r.log.Error("Failed to list presets",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("list presets: %w", err)
	}

	out := make(map[string][]byte, len(all))
	for name, value := range all {
		out[name] = []byte(value)
	}
	return out, nil
}

func (r *presetRepository) Delete(ctx context.Context, orgID, userID uuid.UUID, name string) error {
	removed, err := r.rdb.HDel(ctx, presetKey(orgID, userID), name).Result()
	if err != nil {
		r.log.Error("Failed to delete preset",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("preset", name),
		)
		return fmt.Errorf("delete preset %q: %w", name, err)
	}
	if removed == 0 {
		return domain.NotFoundError{Resource: "preset", ID: name}
	}
	return nil
}
