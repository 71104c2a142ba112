package core

import "context"

// InteractionStore 是交互存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 推荐链路只读；Record / Delete 是上游交互接口的写入管道
//
// 实现：
//   - store.MemoryInteractionStore（测试 / 开发）
//   - store.RedisInteractionStore（生产）
type InteractionStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// ListForUser 返回某个用户的全部交互，按时间倒序
	ListForUser(ctx context.Context, userID string) ([]Interaction, error)

	// ListAll 返回全量交互语料（用户相似度计算需要全量；
	// 规模上来后应改用 ListLikedByUsers 这类定向查询）
	ListAll(ctx context.Context) ([]Interaction, error)

	// ListLikedByUsers 返回指定用户集合的 liked 交互
	ListLikedByUsers(ctx context.Context, userIDs []string) ([]Interaction, error)

	// Record 写入一条交互；同一 (user, item) 重复写入按覆盖处理
	Record(ctx context.Context, in Interaction) error

	// Delete 删除一条交互
	Delete(ctx context.Context, userID string, itemID int64) error

	// Close 关闭连接/释放资源
	Close() error
}

// ErrStoreUnavailable 表示交互存储不可用。
var ErrStoreUnavailable = NewDomainError(ModuleStore, ErrorCodeUnavailable, "store: unavailable")
