package recall

import (
	"context"
	"fmt"
	"sort"

	"github.com/rushteam/reelkit/core"
	"github.com/rushteam/reelkit/pkg/utils"
)

// Collaborative 是协同过滤召回源：把相似用户的 liked 物品变成目标用户
// 没见过的候选。
//
// 算法流程：
//  1. 取相似用户集合的全部 liked 交互（定向查询，不拉全量语料）
//  2. 排除目标用户已 liked / disliked 的物品，按物品计数
//  3. 计数降序取 TopK（同分时 itemID 小者在前）
//  4. 并发解析元数据，解析失败的候选静默丢弃
//
// score = count / max(1, 相似用户数)
type Collaborative struct {
	Store    core.InteractionStore
	Provider core.MetadataProvider

	// TopK 最终返回的候选数，<=0 时取默认值
	TopK int

	// LookupConcurrency 元数据解析的在途并发上限
	LookupConcurrency int
}

func (r *Collaborative) Name() string { return "recall.collaborative" }

func (r *Collaborative) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if r.Store == nil || r.Provider == nil || rctx == nil || len(rctx.SimilarUsers) == 0 {
		return nil, nil
	}

	userIDs := make([]string, 0, len(rctx.SimilarUsers))
	for _, s := range rctx.SimilarUsers {
		userIDs = append(userIDs, s.UserID)
	}

	interactions, err := r.Store.ListLikedByUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	// 排除已交互物品后按物品计数
	counts := make(map[int64]int)
	for _, in := range interactions {
		if !in.Liked || rctx.Seen(in.ItemID) {
			continue
		}
		counts[in.ItemID]++
	}
	if len(counts) == 0 {
		return nil, nil
	}

	type itemCount struct {
		itemID int64
		count  int
	}
	ranked := make([]itemCount, 0, len(counts))
	for itemID, count := range counts {
		ranked = append(ranked, itemCount{itemID: itemID, count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].itemID < ranked[j].itemID
	})

	topK := r.TopK
	if topK <= 0 {
		topK = core.DefaultLimits().CollaborativeTopK
	}
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	ids := make([]int64, len(ranked))
	for i, rc := range ranked {
		ids[i] = rc.itemID
	}
	summaries := ResolveSummaries(ctx, r.Provider, ids, r.LookupConcurrency)

	numSimilar := len(rctx.SimilarUsers)
	if numSimilar < 1 {
		numSimilar = 1
	}

	out := make([]*core.Candidate, 0, len(ranked))
	for i, rc := range ranked {
		if summaries[i] == nil {
			continue // 元数据解析失败：丢弃该候选
		}
		c := core.NewCandidate(*summaries[i])
		c.SimilarityScore = float64(rc.count) / float64(numSimilar)
		c.Reason = fmt.Sprintf("Liked by %d users with similar taste", rc.count)
		c.PutLabel("recall_source", utils.Label{Value: "collaborative", Source: "recall"})
		out = append(out, c)
	}
	return out, nil
}
