package battles

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/arena/internal/errors"
	redisclient "github.com/KirkDiggler/arena/internal/redis"
)

// RepairInput defines the request for checking the redis record store
type RepairInput struct {
	// Apply deletes corrupted records and fixes the index. Without it the
	// store is only inspected.
	Apply bool
}

// RepairOutput reports what the check found, by battle ID
type RepairOutput struct {
	Checked int
	// Corrupted records could not be decoded
	Corrupted []string
	// Orphaned index entries have no record
	Orphaned []string
	// Unindexed records are missing from the index
	Unindexed []string
	Applied   bool
}

// Clean reports whether nothing needed repair
func (o *RepairOutput) Clean() bool {
	return len(o.Corrupted) == 0 && len(o.Orphaned) == 0 && len(o.Unindexed) == 0
}

// RepairRedis scans every stored battle record and compares the records
// with the index List reads from
func RepairRedis(ctx context.Context, client redisclient.Client, input *RepairInput) (*RepairOutput, error) {
	if client == nil {
		return nil, errors.InvalidArgument("client cannot be nil")
	}
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}

	out := &RepairOutput{}
	unindexed := map[string]*Record{}

	iter := client.Scan(ctx, 0, battleKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		id := strings.TrimPrefix(key, battleKeyPrefix)

		data, err := client.Get(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", key)
		}
		out.Checked++

		var record Record
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			out.Corrupted = append(out.Corrupted, id)
			continue
		}

		if err := client.ZScore(ctx, indexKey, id).Err(); err == redis.Nil {
			out.Unindexed = append(out.Unindexed, id)
			unindexed[id] = &record
		} else if err != nil {
			return nil, errors.Wrapf(err, "failed to read index entry for %s", id)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to scan battle records")
	}

	members, err := client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read battle index")
	}
	for _, id := range members {
		n, err := client.Exists(ctx, battleKeyPrefix+id).Result()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to check battle %s", id)
		}
		if n == 0 {
			out.Orphaned = append(out.Orphaned, id)
		}
	}

	sort.Strings(out.Corrupted)
	sort.Strings(out.Orphaned)
	sort.Strings(out.Unindexed)

	if !input.Apply || out.Clean() {
		return out, nil
	}

	pipe := client.TxPipeline()
	for _, id := range out.Corrupted {
		pipe.Del(ctx, battleKeyPrefix+id)
		pipe.ZRem(ctx, indexKey, id)
	}
	for _, id := range out.Orphaned {
		pipe.ZRem(ctx, indexKey, id)
	}
	for _, id := range out.Unindexed {
		pipe.ZAdd(ctx, indexKey, redis.Z{
			Score:  float64(unindexed[id].CreatedAt.UnixMilli()),
			Member: id,
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to repair battle records")
	}
	out.Applied = true

	return out, nil
}
