package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rushteam/reelkit/core"
)

// RedisInteractionStore 是 Redis 实现的交互存储，生产环境常用。
//
// 键布局：
//   - {prefix}:user:{userID}  Hash，field 为 itemID，value 为 JSON 记录
//   - {prefix}:users          Set，有交互记录的用户索引
type RedisInteractionStore struct {
	client *redis.Client
	prefix string
}

func NewRedisInteractionStore(addr string, db int) (*RedisInteractionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "store: redis ping", err)
	}
	return &RedisInteractionStore{client: client, prefix: "interactions"}, nil
}

func (r *RedisInteractionStore) Name() string { return "redis" }

type interactionDoc struct {
	Liked     bool  `json:"liked"`
	Timestamp int64 `json:"ts"` // unix 毫秒
}

func (r *RedisInteractionStore) userKey(userID string) string {
	return r.prefix + ":user:" + userID
}

func (r *RedisInteractionStore) usersKey() string {
	return r.prefix + ":users"
}

func storeErr(op string, err error) error {
	return core.WrapDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "store: "+op, err)
}

func decodeUserHash(userID string, fields map[string]string) ([]core.Interaction, error) {
	out := make([]core.Interaction, 0, len(fields))
	for field, raw := range fields {
		itemID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue // 脏 field 跳过
		}
		var doc interactionDoc
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			continue
		}
		out = append(out, core.Interaction{
			UserID:    userID,
			ItemID:    itemID,
			Liked:     doc.Liked,
			Timestamp: time.UnixMilli(doc.Timestamp),
		})
	}
	return out, nil
}

func (r *RedisInteractionStore) ListForUser(ctx context.Context, userID string) ([]core.Interaction, error) {
	fields, err := r.client.HGetAll(ctx, r.userKey(userID)).Result()
	if err != nil {
		return nil, storeErr("list for user", err)
	}
	out, _ := decodeUserHash(userID, fields)
	sortInteractions(out)
	return out, nil
}

func (r *RedisInteractionStore) ListAll(ctx context.Context) ([]core.Interaction, error) {
	userIDs, err := r.client.SMembers(ctx, r.usersKey()).Result()
	if err != nil {
		return nil, storeErr("list users", err)
	}
	sort.Strings(userIDs)
	return r.listUsers(ctx, userIDs, false)
}

func (r *RedisInteractionStore) ListLikedByUsers(ctx context.Context, userIDs []string) ([]core.Interaction, error) {
	return r.listUsers(ctx, userIDs, true)
}

// listUsers 用 pipeline 批量读取多个用户的交互，减少网络往返。
func (r *RedisInteractionStore) listUsers(ctx context.Context, userIDs []string, likedOnly bool) ([]core.Interaction, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(userIDs))
	for i, userID := range userIDs {
		cmds[i] = pipe.HGetAll(ctx, r.userKey(userID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, storeErr("batch list", err)
	}

	out := make([]core.Interaction, 0)
	for i, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil {
			continue
		}
		interactions, _ := decodeUserHash(userIDs[i], fields)
		for _, in := range interactions {
			if likedOnly && !in.Liked {
				continue
			}
			out = append(out, in)
		}
	}
	sortInteractions(out)
	return out, nil
}

func (r *RedisInteractionStore) Record(ctx context.Context, in core.Interaction) error {
	doc, err := json.Marshal(interactionDoc{
		Liked:     in.Liked,
		Timestamp: in.Timestamp.UnixMilli(),
	})
	if err != nil {
		return storeErr("encode", err)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, r.userKey(in.UserID), fmt.Sprintf("%d", in.ItemID), doc)
	pipe.SAdd(ctx, r.usersKey(), in.UserID)
	if _, err := pipe.Exec(ctx); err != nil {
		return storeErr("record", err)
	}
	return nil
}

func (r *RedisInteractionStore) Delete(ctx context.Context, userID string, itemID int64) error {
	if err := r.client.HDel(ctx, r.userKey(userID), fmt.Sprintf("%d", itemID)).Err(); err != nil {
		return storeErr("delete", err)
	}
	return nil
}

func (r *RedisInteractionStore) Close() error {
	return r.client.Close()
}

var _ core.InteractionStore = (*RedisInteractionStore)(nil)
