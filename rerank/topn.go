package rerank

import (
	"context"

	"github.com/rushteam/reelkit/core"
	"github.com/rushteam/reelkit/pipeline"
)

// TopN 是截断节点，聚合排序之后截取前 N 个候选。
//
// 使用场景：
//   - 限制返回结果数量（默认结果上限 20）
//   - 配合过滤节点收尾
type TopN struct {
	// N 要保留的候选数量；N <= 0 时不截断
	N int
}

func (n *TopN) Name() string {
	return "rerank.topn"
}

func (n *TopN) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopN) Process(
	_ context.Context,
	_ *core.RecommendContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.N <= 0 || len(cands) <= n.N {
		return cands, nil
	}
	return cands[:n.N], nil
}
