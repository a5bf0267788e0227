package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration.
type Config struct {
	Address  string
	Password string
	DB       int
}

// redisPresence implements PresenceStore using Redis.
type redisPresence struct {
	client *redis.Client
}

// Redis key patterns:
// presence:online                 SET<user_id>   - users with >=1 live session
// presence:last_seen:{user_id}    STRING<unix>   - recorded on the offline edge
// typing:{chat_id}                SET<user_id>   - ephemeral, short TTL

const (
	onlineKey = "presence:online"
	typingTTL = 10 * time.Second
)

func lastSeenKey(userID string) string {
	return fmt.Sprintf("presence:last_seen:%s", userID)
}

func typingKey(chatID string) string {
	return fmt.Sprintf("typing:%s", chatID)
}

// NewRedisPresence creates a Redis-backed presence store.
func NewRedisPresence(cfg Config) (PresenceStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &redisPresence{client: client}, nil
}

func (s *redisPresence) SetOnline(ctx context.Context, userID string) error {
	return s.client.SAdd(ctx, onlineKey, userID).Err()
}

func (s *redisPresence) SetOffline(ctx context.Context, userID string, lastSeen time.Time) error {
	pipe := s.client.TxPipeline()
	pipe.SRem(ctx, onlineKey, userID)
	pipe.Set(ctx, lastSeenKey(userID), strconv.FormatInt(lastSeen.Unix(), 10), 0)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *redisPresence) OnlineUsers(ctx context.Context) ([]string, error) {
	return s.client.SMembers(ctx, onlineKey).Result()
}

func (s *redisPresence) SetTyping(ctx context.Context, chatID, userID string, typing bool) error {
	key := typingKey(chatID)
	if !typing {
		return s.client.SRem(ctx, key, userID).Err()
	}
	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, key, userID)
	pipe.Expire(ctx, key, typingTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *redisPresence) TypingUsers(ctx context.Context, chatID string) ([]string, error) {
	return s.client.SMembers(ctx, typingKey(chatID)).Result()
}

func (s *redisPresence) Close() error {
	return s.client.Close()
}
