package core

import "context"

// MetadataProvider 是第三方目录服务的领域接口：只读、可能失败、有限流。
// 所有调用都应带超时；失败以 ModuleMetadata 的 DomainError 表达。
type MetadataProvider interface {
	// GetByID 按物品 ID 查询详情。hint 为媒体类型提示，可为 ""。
	// 物品不存在返回 ErrItemNotFound（调用方按"丢弃候选"处理）。
	GetByID(ctx context.Context, itemID int64, hint MediaType) (Item, error)

	// Trending 返回热门物品，最多 limit 个。
	Trending(ctx context.Context, limit int) ([]Item, error)

	// PopularByGenre 返回某类型下的热门物品，最多 limit 个。
	PopularByGenre(ctx context.Context, genreID int64, limit int) ([]Item, error)
}

// GenreNamer 把类型 ID 映射为展示名。实现见 metadata.GenreCache。
type GenreNamer interface {
	GenreName(ctx context.Context, genreID int64) string
}

// ErrItemNotFound 表示目录中不存在该物品。
var ErrItemNotFound = NewDomainError(ModuleMetadata, ErrorCodeNotFound, "metadata: item not found")

// NewExternalServiceError 创建一个元数据服务失败错误（不可达、限流、超时、响应异常）。
func NewExternalServiceError(message string, err error) *DomainError {
	return WrapDomainError(ModuleMetadata, ErrorCodeExternal, message, err)
}
