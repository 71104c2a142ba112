package metadata

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rushteam/reelkit/core"
)

// GenreLister 提供类型 ID → 名称表。TMDB 实现了此接口。
type GenreLister interface {
	ListGenres(ctx context.Context) (map[int64]string, error)
}

// GenreCache 是进程级的类型名缓存：首次使用时懒加载，进程生命周期内
// 不失效（类型表基本静态）。这是链路中唯一的共享可变状态，
// 并发首次加载由 singleflight 收敛为一次。
//
// 显式构造、注入使用，不做包级单例。
type GenreCache struct {
	source GenreLister // 可为 nil：直接用内置静态表

	mu        sync.RWMutex
	names     map[int64]string
	populated bool

	sf singleflight.Group
}

func NewGenreCache(source GenreLister) *GenreCache {
	return &GenreCache{source: source}
}

// EnsurePopulated 幂等加载类型表。远端失败时退回内置静态表并同样视为
// 已加载——类型表的时效性不值得为它反复打外部服务。
func (c *GenreCache) EnsurePopulated(ctx context.Context) error {
	c.mu.RLock()
	done := c.populated
	c.mu.RUnlock()
	if done {
		return nil
	}

	_, err, _ := c.sf.Do("populate", func() (any, error) {
		c.mu.RLock()
		done := c.populated
		c.mu.RUnlock()
		if done {
			return nil, nil
		}

		names := defaultGenreNames()
		if c.source != nil {
			if fetched, err := c.source.ListGenres(ctx); err == nil && len(fetched) > 0 {
				for id, name := range fetched {
					names[id] = name
				}
			}
		}

		c.mu.Lock()
		c.names = names
		c.populated = true
		c.mu.Unlock()
		return nil, nil
	})
	return err
}

// GenreName 返回类型展示名，未知 ID 返回 "Unknown"。
func (c *GenreCache) GenreName(ctx context.Context, genreID int64) string {
	_ = c.EnsurePopulated(ctx)

	c.mu.RLock()
	defer c.mu.RUnlock()
	if name, ok := c.names[genreID]; ok {
		return name
	}
	return "Unknown"
}

var _ core.GenreNamer = (*GenreCache)(nil)

// defaultGenreNames 是 TMDB 的静态类型表，远端不可用时的离线兜底。
func defaultGenreNames() map[int64]string {
	return map[int64]string{
		28:    "Action",
		12:    "Adventure",
		16:    "Animation",
		35:    "Comedy",
		80:    "Crime",
		99:    "Documentary",
		18:    "Drama",
		10751: "Family",
		14:    "Fantasy",
		36:    "History",
		27:    "Horror",
		10402: "Music",
		9648:  "Mystery",
		10749: "Romance",
		878:   "Sci-Fi",
		10770: "TV Movie",
		53:    "Thriller",
		10752: "War",
		37:    "Western",
		10759: "Action & Adventure",
		10762: "Kids",
		10763: "News",
		10764: "Reality",
		10765: "Sci-Fi & Fantasy",
		10766: "Soap",
		10767: "Talk",
		10768: "War & Politics",
	}
}
