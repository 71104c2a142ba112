package filter

import (
	"context"

	"github.com/rushteam/reelkit/core"
)

// SeenFilter 过滤目标用户已经 liked / disliked 的物品。
// 每个生成器已在源头排除这些物品，这里是聚合后的兜底。
type SeenFilter struct{}

func (f *SeenFilter) Name() string {
	return "filter.seen"
}

func (f *SeenFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	cand *core.Candidate,
) (bool, error) {
	if cand == nil {
		return true, nil
	}
	return rctx.Seen(cand.ID), nil
}
