package recall

import (
	"context"

	"github.com/rushteam/reelkit/core"
	"github.com/rushteam/reelkit/pipeline"
	"github.com/rushteam/reelkit/pkg/utils"
)

// Role 是 Trending 的两种角色。
type Role string

const (
	// RoleSignal 作为加权信号参与聚合，默认 10 个候选，理由 "Trending now"
	RoleSignal Role = "signal"

	// RoleFallback 作为全局兜底，默认 20 个候选，理由 "Popular and highly rated"
	RoleFallback Role = "fallback"
)

// Trending 包装元数据服务的热门 feed。
// 有目标上下文时排除已交互物品；兜底角色可在没有任何目标上下文的情况下使用
//（新用户无历史）。元数据服务的失败以类型化错误透出，由编排层降级。
// Trending 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Trending struct {
	Provider core.MetadataProvider

	Role Role

	// Limit <=0 时按角色取默认值
	Limit int
}

func (r *Trending) Name() string        { return "recall.trending" }
func (r *Trending) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *Trending) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Trending) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if r.Provider == nil {
		return nil, nil
	}

	limits := core.DefaultLimits()
	limit := r.Limit
	reason := "Trending now"
	if r.Role == RoleFallback {
		reason = "Popular and highly rated"
		if limit <= 0 {
			limit = limits.TrendingFallback
		}
	} else if limit <= 0 {
		limit = limits.TrendingSignal
	}

	// 多取一些再过滤，排除已交互物品后仍能凑满 limit
	fetch := limit
	if rctx != nil {
		fetch += len(rctx.Liked) + len(rctx.Disliked)
	}
	items, err := r.Provider.Trending(ctx, fetch)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Candidate, 0, limit)
	for _, item := range items {
		if len(out) >= limit {
			break
		}
		s := item.Summary()
		if rctx.Seen(s.ID) {
			continue
		}
		c := core.NewCandidate(s)
		score := s.Rating / 10
		if score < 0 {
			score = 0
		}
		c.SimilarityScore = score
		c.Reason = reason
		c.PutLabel("recall_source", utils.Label{Value: "trending", Source: "recall"})
		out = append(out, c)
	}
	return out, nil
}
