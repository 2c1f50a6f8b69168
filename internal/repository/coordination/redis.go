// Package coordination implements the CoordinationStore domain interface
// against Redis (C4, §4.4): the AK-set, task-queue, visited-set and
// result-queue are four independent keys inside one Redis instance, named
// by the [redis] section of the config file.
package coordination

import (
	"context"
	"fmt"
	"time"

	"github.com/location-microservice/internal/config"
	domainrepo "github.com/location-microservice/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Store struct {
	client *redis.Client
	logger *zap.Logger

	akKey     string
	taskKey   string
	visitKey  string
	resultKey string
}

var _ domainrepo.CoordinationStore = (*Store)(nil)

// New connects to redis and returns the coordination store. The connection
// is verified with a Ping before returning, mirroring the teacher's
// cache.NewRedis bootstrap.
func New(cfg *config.RedisConfig, logger *zap.Logger) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("redis connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
	)

	return &Store{
		client:    client,
		logger:    logger,
		akKey:     cfg.AKDB,
		taskKey:   cfg.TaskDB,
		visitKey:  cfg.VisitDB,
		resultKey: cfg.ResultDB,
	}, nil
}

func (s *Store) Close() error {
	s.logger.Info("closing redis connection")
	return s.client.Close()
}

func (s *Store) Health(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// --- AK-set ---

func (s *Store) SampleCredential(ctx context.Context) (string, bool, error) {
	ak, err := s.client.SRandMember(ctx, s.akKey).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return ak, true, nil
}

func (s *Store) RemoveCredential(ctx context.Context, ak string) error {
	return s.client.SRem(ctx, s.akKey, ak).Err()
}

func (s *Store) CredentialCount(ctx context.Context) (int64, error) {
	return s.client.SCard(ctx, s.akKey).Result()
}

func (s *Store) ResetCredentials(ctx context.Context, aks []string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.akKey)
	if len(aks) > 0 {
		members := make([]interface{}, len(aks))
		for i, ak := range aks {
			members[i] = ak
		}
		pipe.SAdd(ctx, s.akKey, members...)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) ListCredentials(ctx context.Context) ([]string, error) {
	return s.client.SMembers(ctx, s.akKey).Result()
}

// --- task-queue ---

func (s *Store) PopTask(ctx context.Context) (string, bool, error) {
	item, err := s.client.LPop(ctx, s.taskKey).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return item, true, nil
}

func (s *Store) RequeueHead(ctx context.Context, item string) error {
	return s.client.LPush(ctx, s.taskKey, item).Err()
}

func (s *Store) RequeueTail(ctx context.Context, item string) error {
	return s.client.RPush(ctx, s.taskKey, item).Err()
}

func (s *Store) TaskQueueLen(ctx context.Context) (int64, error) {
	return s.client.LLen(ctx, s.taskKey).Result()
}

// --- visited-set ---

func (s *Store) IsVisited(ctx context.Context, uid string) (bool, error) {
	return s.client.SIsMember(ctx, s.visitKey, uid).Result()
}

// MarkVisited uses SADD's own return (count of newly added members) as the
// check-and-set primitive the atomicity invariant I4 depends on: a single
// round-trip both tests and sets membership.
func (s *Store) MarkVisited(ctx context.Context, uid string) (bool, error) {
	added, err := s.client.SAdd(ctx, s.visitKey, uid).Result()
	if err != nil {
		return false, err
	}
	return added > 0, nil
}

func (s *Store) VisitedCount(ctx context.Context) (int64, error) {
	return s.client.SCard(ctx, s.visitKey).Result()
}

func (s *Store) ResetVisited(ctx context.Context, uids []string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.visitKey)
	if len(uids) > 0 {
		members := make([]interface{}, len(uids))
		for i, uid := range uids {
			members[i] = uid
		}
		pipe.SAdd(ctx, s.visitKey, members...)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// --- result-queue ---

func (s *Store) PushResult(ctx context.Context, serialized string) error {
	return s.client.RPush(ctx, s.resultKey, serialized).Err()
}

func (s *Store) PopResult(ctx context.Context) (string, bool, error) {
	item, err := s.client.LPop(ctx, s.resultKey).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return item, true, nil
}

func (s *Store) ResultQueueLen(ctx context.Context) (int64, error) {
	return s.client.LLen(ctx, s.resultKey).Result()
}
