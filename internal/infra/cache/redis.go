package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"atendo/internal/domain/presence"
	"atendo/pkg/logger"
)

const (
	presenceKeyPrefix = "presence:"
	onlineSetKey      = "online_users"
)

// presencePayload é o registro espelhado no Redis por usuário
type presencePayload struct {
	UserID   uuid.UUID       `json:"userId"`
	Status   presence.Status `json:"status"`
	LastSeen time.Time       `json:"lastSeen"`
}

// PresenceMirror espelha o status vivo de presença no Redis, para consumo de
// outras views e serviços que não têm acesso ao tracker em processo. Chaves
// carregam TTL para que um processo que morreu sem limpar não deixe usuários
// presos em online.
type PresenceMirror struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

var _ presence.StatusStore = (*PresenceMirror)(nil)

// NewPresenceMirror conecta ao Redis e valida a conexão
func NewPresenceMirror(ctx context.Context, addr, password string, db int, ttl time.Duration, log logger.Logger) (*PresenceMirror, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &PresenceMirror{
		rdb:    rdb,
		ttl:    ttl,
		logger: log.WithComponent("presence-mirror"),
	}, nil
}

// SaveStatus espelha a transição de status no Redis
func (m *PresenceMirror) SaveStatus(ctx context.Context, userID uuid.UUID, status presence.Status, ts time.Time) error {
	key := presenceKeyPrefix + userID.String()

	pipe := m.rdb.Pipeline()
	if status == presence.StatusOnline {
		data, err := json.Marshal(presencePayload{UserID: userID, Status: status, LastSeen: ts})
		if err != nil {
			return fmt.Errorf("failed to marshal presence payload: %w", err)
		}
		pipe.Set(ctx, key, data, m.ttl)
		pipe.SAdd(ctx, onlineSetKey, userID.String())
		pipe.Expire(ctx, onlineSetKey, m.ttl*2)
	} else {
		pipe.Del(ctx, key)
		pipe.SRem(ctx, onlineSetKey, userID.String())
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to mirror presence: %w", err)
	}
	return nil
}

// GetOnlineUserIDs retorna os IDs marcados como online no espelho
func (m *PresenceMirror) GetOnlineUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	members, err := m.rdb.SMembers(ctx, onlineSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read online set: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		id, err := uuid.Parse(member)
		if err != nil {
			m.logger.WithField("member", member).Warn().Msg("Invalid user id in online set")
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Close encerra a conexão com o Redis
func (m *PresenceMirror) Close() error {
	return m.rdb.Close()
}
