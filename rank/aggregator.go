package rank

import (
	"context"
	"sort"

	"github.com/rushteam/reelkit/core"
	"github.com/rushteam/reelkit/pkg/utils"
	"github.com/rushteam/reelkit/recall"
)

// Aggregator 把三路生成器的候选合并成最终排序结果。
//
// 算法流程：
//  1. 按来源标注权重（协同 0.40 / 内容 0.35 / 热门 0.25）
//  2. 按 itemID 合并：同一物品被多个来源命中时，权重与分数累加
//     （不取平均——被多路确认的物品应该排得更高）
//  3. 按累加分数降序稳定排序；同分时保持首次出现顺序，
//     来源优先级固定为 协同 > 内容 > 热门
//  4. 截断交给 rerank.TopN
//  5. 兜底链：结果为空 → Fallback（热门兜底角色）→ 仍为空时返回
//     单条引导候选（这是新用户引导，不是错误）
type Aggregator struct {
	// Weights 零值时取默认权重
	Weights core.BlendConfig

	// Fallback 是兜底召回源，通常为 &recall.Trending{Role: RoleFallback}
	Fallback recall.Source
}

// Merge 合并三路候选并执行兜底链。三个入参都允许为 nil（对应生成器失败或无产出）。
func (a *Aggregator) Merge(
	ctx context.Context,
	rctx *core.RecommendContext,
	collaborative, content, trending []*core.Candidate,
) ([]*core.Candidate, error) {
	weights := a.Weights
	if weights.Collaborative == 0 && weights.Content == 0 && weights.Trending == 0 {
		weights = core.DefaultBlendConfig()
	}

	merged := make([]*core.Candidate, 0, len(collaborative)+len(content)+len(trending))
	index := make(map[int64]*core.Candidate)

	// 合并顺序即同分时的来源优先级
	annotate(collaborative, weights.Collaborative)
	annotate(content, weights.Content)
	annotate(trending, weights.Trending)
	for _, list := range [][]*core.Candidate{collaborative, content, trending} {
		for _, c := range list {
			if c == nil {
				continue
			}
			if old, ok := index[c.ID]; ok {
				old.SourceWeight += c.SourceWeight
				old.SimilarityScore += c.SimilarityScore
				for k, v := range c.Labels {
					old.PutLabel(k, v)
				}
				continue
			}
			index[c.ID] = c
			merged = append(merged, c)
		}
	}

	// 稳定排序保证同分时保持首次出现顺序
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].SimilarityScore > merged[j].SimilarityScore
	})

	if len(merged) > 0 {
		return merged, nil
	}

	// 兜底链
	if a.Fallback != nil {
		fallback, err := a.Fallback.Recall(ctx, rctx)
		if err == nil && len(fallback) > 0 {
			return fallback, nil
		}
	}
	return []*core.Candidate{Placeholder()}, nil
}

// annotate 标注来源权重并把分数钳制到非负。
func annotate(cands []*core.Candidate, weight float64) {
	for _, c := range cands {
		if c == nil {
			continue
		}
		c.SourceWeight = weight
		if c.SimilarityScore < 0 {
			c.SimilarityScore = 0
		}
	}
}

// Placeholder 是元数据服务完全不可用时的单条引导候选。
func Placeholder() *core.Candidate {
	c := core.NewCandidate(core.Summary{
		ID:          1,
		Title:       "Start exploring movies to get personalized recommendations!",
		Overview:    "Like and dislike movies to help us understand your preferences.",
		ReleaseYear: "2024",
		MediaType:   core.MediaTypeMovie,
	})
	c.GenreNames = []string{"All Genres"}
	c.Reason = "Get started with recommendations"
	c.PutLabel("recall_source", utils.Label{Value: "placeholder", Source: "aggregate"})
	return c
}
