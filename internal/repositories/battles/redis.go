package battles

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/arena/internal/errors"
	redisclient "github.com/KirkDiggler/arena/internal/redis"
)

const (
	battleKeyPrefix = "battle:"
	// indexKey is a sorted set of battle IDs scored by creation time
	indexKey = "battles:index"
)

// RedisConfig holds the dependencies for the Redis repository
type RedisConfig struct {
	Client redisclient.Client
}

type redisRepository struct {
	client redisclient.Client
}

// NewRedis creates a new Redis-backed battle record repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return nil, errors.InvalidArgument("client cannot be nil")
	}

	return &redisRepository{
		client: cfg.Client,
	}, nil
}

func (r *redisRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if err := validateRecord(input.Record); err != nil {
		return nil, err
	}

	data, err := json.Marshal(input.Record)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal battle record")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, battleKeyPrefix+input.Record.ID, data, 0)
	pipe.ZAdd(ctx, indexKey, redis.Z{
		Score:  float64(input.Record.CreatedAt.UnixMilli()),
		Member: input.Record.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to save battle %s", input.Record.ID)
	}

	return &SaveOutput{}, nil
}

func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDRequired)
	}

	result, err := r.client.Get(ctx, battleKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, notFound(input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get battle %s", input.ID)
	}

	var record Record
	if err := json.Unmarshal([]byte(result), &record); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal battle %s", input.ID)
	}

	return &GetOutput{Record: &record}, nil
}

// List reads the index newest first. Index entries whose record is gone
// are skipped.
func (r *redisRepository) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	limit := listLimit(input)

	ids, err := r.client.ZRevRange(ctx, indexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read battle index")
	}
	if len(ids) == 0 {
		return &ListOutput{Records: []*Record{}}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = battleKeyPrefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get battles")
	}

	records := make([]*Record, 0, len(values))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		var record Record
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal battle %s", ids[i])
		}
		records = append(records, &record)
	}

	return &ListOutput{Records: records}, nil
}
