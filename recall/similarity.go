package recall

import (
	"sort"

	"github.com/rushteam/reelkit/core"
)

// SimilarityEngine 基于行为重合度为目标用户找相似用户。
//
// 核心思想："兴趣相似的用户，喜欢相似的物品"
//
// 算法流程：
//  1. 目标用户 → liked / disliked 两个物品集合
//  2. 语料按用户分组（排除目标用户自己）
//  3. score = LikedWeight * Jaccard(liked) + DislikedWeight * Jaccard(disliked)
//  4. 低于 MinScore 的用户丢弃，余下按分数降序取 TopK
//
// 同分时按 userID 升序，保证输出确定性。
type SimilarityEngine struct {
	Config core.SimilarityConfig
}

func (e *SimilarityEngine) config() core.SimilarityConfig {
	cfg := e.Config
	def := core.DefaultSimilarityConfig()
	if cfg.LikedWeight == 0 && cfg.DislikedWeight == 0 {
		cfg.LikedWeight = def.LikedWeight
		cfg.DislikedWeight = def.DislikedWeight
	}
	if cfg.MinScore == 0 {
		cfg.MinScore = def.MinScore
	}
	if cfg.TopK <= 0 {
		cfg.TopK = def.TopK
	}
	return cfg
}

// SimilarUsers 计算目标用户与语料中其他用户的相似度。
// 空语料返回空列表而不是错误。调用方保证目标用户的历史非空。
func (e *SimilarityEngine) SimilarUsers(
	rctx *core.RecommendContext,
	corpus []core.Interaction,
) []core.SimilarityScore {
	if rctx == nil || len(corpus) == 0 {
		return nil
	}
	cfg := e.config()

	// 语料按用户分组，排除目标用户自己
	groups := make(map[string][]core.Interaction)
	for _, in := range corpus {
		if in.UserID == rctx.UserID {
			continue
		}
		groups[in.UserID] = append(groups[in.UserID], in)
	}

	scores := make([]core.SimilarityScore, 0, len(groups))
	for userID, interactions := range groups {
		otherLiked, otherDisliked := core.PreferenceSets(interactions)

		likeSim := jaccard(rctx.Liked, otherLiked)
		dislikeSim := jaccard(rctx.Disliked, otherDisliked)

		score := cfg.LikedWeight*likeSim + cfg.DislikedWeight*dislikeSim
		if score < 0 {
			score = 0
		}
		if score < cfg.MinScore {
			continue
		}
		scores = append(scores, core.SimilarityScore{UserID: userID, Score: score})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].UserID < scores[j].UserID
	})
	if len(scores) > cfg.TopK {
		scores = scores[:cfg.TopK]
	}
	return scores
}

// jaccard 计算两个集合的 Jaccard 相似度：|A∩B| / |A∪B|，并集为空时为 0。
func jaccard(a, b core.ItemSet) float64 {
	intersection := 0
	union := len(b)
	for id := range a {
		if b.Has(id) {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
