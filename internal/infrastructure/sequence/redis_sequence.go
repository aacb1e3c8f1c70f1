package sequence

import (
	"client_portal/internal/usecase/interfaces"
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sequence:"

// RedisSequence allocates numbers with INCR, which is atomic on the server.
type RedisSequence struct {
	rdb redis.Cmdable
}

var _ interfaces.ISequenceAllocator = (*RedisSequence)(nil)

func NewRedisSequence(rdb redis.Cmdable) *RedisSequence {
	return &RedisSequence{rdb: rdb}
}

func (s *RedisSequence) Next(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("sequence name is required")
	}
	n, err := s.rdb.Incr(ctx, keyPrefix+name).Result()
	if err != nil {
		log.Printf("[sequence][redis] incr failed name=%s err=%v", name, err)
		return 0, fmt.Errorf("allocate %s number: %w", name, err)
	}
	return n, nil
}
