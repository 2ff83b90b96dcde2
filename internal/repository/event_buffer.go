package repository

import (
	"adaptive_learning_backend/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// EventBuffer 按会话保存最近的交互事件，超过 model.MaxSessionEvents 时丢弃最旧的
type EventBuffer interface {
	Append(ctx context.Context, sessionID string, events ...model.InteractionEvent) error
	Events(ctx context.Context, sessionID string) ([]model.InteractionEvent, error)
	Clear(ctx context.Context, sessionID string) error
}

type memorySession struct {
	events   []model.InteractionEvent
	lastSeen time.Time
}

// MemoryEventBuffer 进程内缓冲，单实例部署使用
type MemoryEventBuffer struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryEventBuffer(ttl time.Duration) *MemoryEventBuffer {
	return &MemoryEventBuffer{
		sessions: make(map[string]*memorySession),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (b *MemoryEventBuffer) Append(_ context.Context, sessionID string, events ...model.InteractionEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.sessions[sessionID]
	if !ok || b.expired(s) {
		s = &memorySession{}
		b.sessions[sessionID] = s
	}
	s.events = append(s.events, events...)
	if over := len(s.events) - model.MaxSessionEvents; over > 0 {
		s.events = append([]model.InteractionEvent(nil), s.events[over:]...)
	}
	s.lastSeen = b.now()
	return nil
}

func (b *MemoryEventBuffer) Events(_ context.Context, sessionID string) ([]model.InteractionEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	if b.expired(s) {
		delete(b.sessions, sessionID)
		return nil, nil
	}
	out := make([]model.InteractionEvent, len(s.events))
	copy(out, s.events)
	return out, nil
}

func (b *MemoryEventBuffer) Clear(_ context.Context, sessionID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, sessionID)
	return nil
}

// Sweep 清理过期会话，返回清理数量
func (b *MemoryEventBuffer) Sweep() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	removed := 0
	for id, s := range b.sessions {
		if b.expired(s) {
			delete(b.sessions, id)
			removed++
		}
	}
	return removed
}

func (b *MemoryEventBuffer) expired(s *memorySession) bool {
	return b.ttl > 0 && b.now().Sub(s.lastSeen) > b.ttl
}

// RedisEventBuffer 多实例部署时共享会话缓冲
type RedisEventBuffer struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisEventBuffer(rdb *redis.Client, ttl time.Duration) *RedisEventBuffer {
	return &RedisEventBuffer{rdb: rdb, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("adaptive:struggle:session:%s", sessionID)
}

func (b *RedisEventBuffer) Append(ctx context.Context, sessionID string, events ...model.InteractionEvent) error {
	if len(events) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(events))
	for _, e := range events {
		raw, err := json.Marshal(e)
		if err != nil {
			return err
		}
		values = append(values, raw)
	}

	key := sessionKey(sessionID)
	_, err := b.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.LTrim(ctx, key, -model.MaxSessionEvents, -1)
		if b.ttl > 0 {
			pipe.Expire(ctx, key, b.ttl)
		}
		return nil
	})
	return translateRedisError(err)
}

func (b *RedisEventBuffer) Events(ctx context.Context, sessionID string) ([]model.InteractionEvent, error) {
	raw, err := b.rdb.LRange(ctx, sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, translateRedisError(err)
	}
	events := make([]model.InteractionEvent, 0, len(raw))
	for _, r := range raw {
		var e model.InteractionEvent
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

func (b *RedisEventBuffer) Clear(ctx context.Context, sessionID string) error {
	return translateRedisError(b.rdb.Del(ctx, sessionKey(sessionID)).Err())
}
