package grant

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis keeps the access matrix in Redis so multiple registry instances can
// share one matrix. Keys carry no TTL: grants live until revoked.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func grantKey(recordID uint64, accessor string) string {
	return fmt.Sprintf("provreg:grant:%d:%s", recordID, accessor)
}

func (s *Redis) Grant(ctx context.Context, recordID uint64, accessor string) error {
	if err := s.client.Set(ctx, grantKey(recordID, accessor), "1", 0).Err(); err != nil {
		return fmt.Errorf("set grant: %w", err)
	}
	return nil
}

func (s *Redis) Revoke(ctx context.Context, recordID uint64, accessor string) error {
	if err := s.client.Del(ctx, grantKey(recordID, accessor)).Err(); err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}
	return nil
}

func (s *Redis) Authorized(ctx context.Context, recordID uint64, accessor string) (bool, error) {
	n, err := s.client.Exists(ctx, grantKey(recordID, accessor)).Result()
	if err != nil {
		return false, fmt.Errorf("check grant: %w", err)
	}
	return n > 0, nil
}
