package core

// RecommendContext 承载一次请求的目标用户信息，贯穿整个链路透传。
// Liked / Disliked 集合由每个生成器各自用来排除已交互物品（纵深防御），
// 聚合后的过滤节点再兜底一次。
type RecommendContext struct {
	UserID string

	// Interactions 是目标用户的全部交互，按时间倒序
	Interactions []Interaction

	// Liked / Disliked 是由 Interactions 建好的物品集合
	Liked    ItemSet
	Disliked ItemSet

	// LikedSummaries 是已解析的 liked 物品投影（内容生成器的输入），
	// 由编排层在进入生成器前填充；解析失败的物品缺席
	LikedSummaries []Summary

	// SimilarUsers 是相似用户列表，按分数降序
	SimilarUsers []SimilarityScore

	// Params 请求级上下文参数
	Params map[string]any
}

// NewRecommendContext 从交互记录构建请求上下文。
func NewRecommendContext(userID string, interactions []Interaction) *RecommendContext {
	liked, disliked := PreferenceSets(interactions)
	return &RecommendContext{
		UserID:       userID,
		Interactions: interactions,
		Liked:        liked,
		Disliked:     disliked,
	}
}

// Seen 判断目标用户是否已对该物品表过态。rctx 为 nil 时恒为 false
//（Trending 的全局兜底角色没有目标上下文）。
func (rctx *RecommendContext) Seen(itemID int64) bool {
	if rctx == nil {
		return false
	}
	return rctx.Liked.Has(itemID) || rctx.Disliked.Has(itemID)
}
