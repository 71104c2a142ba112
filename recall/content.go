package recall

import (
	"context"
	"fmt"
	"sort"

	"github.com/rushteam/reelkit/core"
	"github.com/rushteam/reelkit/pkg/utils"
)

// PreferenceSource 提供预计算的用户类型偏好（genreID -> 权重 0-1）。
// 可选依赖；实现见 feature.GenrePreferences（Feast 在线特征）。
type PreferenceSource interface {
	GenreAffinities(ctx context.Context, userID string) (map[int64]float64, error)
}

// Content 是基于内容的召回源（Content-Based Recommendation）。
//
// 核心思想："用户喜欢某些类型的内容，推荐这些类型下的热门物品"
//
// 算法流程：
//  1. 统计目标用户 liked 物品的类型分布（或从 PreferenceSource 取预计算偏好）
//  2. 取前 TopGenres 个类型（同分时 genreID 小者在前）
//  3. 每个类型查热门，排除已交互物品，取前 PerGenre 个
//
// score = 类型出现次数 / liked 物品数；类型没有出现时返回空列表。
type Content struct {
	Provider core.MetadataProvider
	Genres   core.GenreNamer

	// Preferences 可选：命中时以预计算偏好替代现算的类型分布
	Preferences PreferenceSource

	// TopGenres / PerGenre <=0 时取默认值
	TopGenres int
	PerGenre  int
}

func (r *Content) Name() string { return "recall.content" }

func (r *Content) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if r.Provider == nil || rctx == nil || len(rctx.LikedSummaries) == 0 {
		return nil, nil
	}

	weights := r.genreWeights(ctx, rctx)
	if len(weights) == 0 {
		return nil, nil
	}

	type genreWeight struct {
		genreID int64
		weight  float64
	}
	ranked := make([]genreWeight, 0, len(weights))
	for genreID, w := range weights {
		ranked = append(ranked, genreWeight{genreID: genreID, weight: w})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].weight != ranked[j].weight {
			return ranked[i].weight > ranked[j].weight
		}
		return ranked[i].genreID < ranked[j].genreID
	})

	limits := core.DefaultLimits()
	topGenres := r.TopGenres
	if topGenres <= 0 {
		topGenres = limits.TopGenres
	}
	perGenre := r.PerGenre
	if perGenre <= 0 {
		perGenre = limits.PerGenre
	}
	if len(ranked) > topGenres {
		ranked = ranked[:topGenres]
	}

	out := make([]*core.Candidate, 0, topGenres*perGenre)
	for _, gw := range ranked {
		// 多取一些再过滤，避免排除已交互物品后不足 perGenre 个
		items, err := r.Provider.PopularByGenre(ctx, gw.genreID, perGenre*2)
		if err != nil {
			return nil, err
		}

		taken := 0
		for _, item := range items {
			if taken >= perGenre {
				break
			}
			s := item.Summary()
			if rctx.Seen(s.ID) {
				continue
			}
			c := core.NewCandidate(s)
			c.SimilarityScore = gw.weight
			c.Reason = fmt.Sprintf("Similar to your liked %s content", r.genreName(ctx, gw.genreID))
			c.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
			out = append(out, c)
			taken++
		}
	}
	return out, nil
}

// genreWeights 返回 genreID -> 分数。默认按 liked 物品的类型出现次数归一化；
// 配置了 PreferenceSource 且命中时用预计算偏好。
func (r *Content) genreWeights(ctx context.Context, rctx *core.RecommendContext) map[int64]float64 {
	if r.Preferences != nil {
		affs, err := r.Preferences.GenreAffinities(ctx, rctx.UserID)
		if err == nil && len(affs) > 0 {
			out := make(map[int64]float64, len(affs))
			for genreID, w := range affs {
				if w < 0 {
					w = 0
				}
				out[genreID] = w
			}
			return out
		}
		// 特征服务失败不是生成器失败：退回现算
	}

	counts := make(map[int64]float64)
	for _, s := range rctx.LikedSummaries {
		for _, genreID := range s.GenreIDs {
			counts[genreID]++
		}
	}
	n := float64(len(rctx.LikedSummaries))
	for genreID := range counts {
		counts[genreID] /= n
	}
	return counts
}

func (r *Content) genreName(ctx context.Context, genreID int64) string {
	if r.Genres == nil {
		return "Unknown"
	}
	return r.Genres.GenreName(ctx, genreID)
}
