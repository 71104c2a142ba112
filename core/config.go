package core

import "time"

// 链路中的经验权重统一收敛在这里，算法代码不出现裸数字，便于调参。

// SimilarityConfig 是用户相似度计算的配置。
type SimilarityConfig struct {
	// LikedWeight / DislikedWeight 是 liked / disliked 集合 Jaccard 的混合权重
	LikedWeight    float64
	DislikedWeight float64

	// MinScore 是相似用户的最低分数阈值，低于阈值的用户被丢弃
	MinScore float64

	// TopK 是保留的相似用户数
	TopK int
}

func DefaultSimilarityConfig() SimilarityConfig {
	return SimilarityConfig{
		LikedWeight:    0.7,
		DislikedWeight: 0.3,
		MinScore:       0.1,
		TopK:           10,
	}
}

// BlendConfig 是聚合器的来源权重。
type BlendConfig struct {
	Collaborative float64
	Content       float64
	Trending      float64
}

func DefaultBlendConfig() BlendConfig {
	return BlendConfig{
		Collaborative: 0.40,
		Content:       0.35,
		Trending:      0.25,
	}
}

// Limits 是各环节的数量与并发上限。
type Limits struct {
	// CollaborativeTopK 协同生成器返回的候选数
	CollaborativeTopK int

	// TopGenres / PerGenre 内容生成器取前几个类型、每类型几个候选
	TopGenres int
	PerGenre  int

	// TrendingSignal / TrendingFallback 热门生成器两种角色的候选数
	TrendingSignal   int
	TrendingFallback int

	// Result 最终结果条数上限
	Result int

	// LookupConcurrency 元数据批量查询的在途并发上限
	LookupConcurrency int

	// ProviderTimeout 单次外部调用超时
	ProviderTimeout time.Duration
}

func DefaultLimits() Limits {
	return Limits{
		CollaborativeTopK: 10,
		TopGenres:         3,
		PerGenre:          5,
		TrendingSignal:    10,
		TrendingFallback:  20,
		Result:            20,
		LookupConcurrency: 8,
		ProviderTimeout:   5 * time.Second,
	}
}
