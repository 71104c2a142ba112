// Package service 编排推荐链路：相似度 → 三路生成器 → 聚合 → 过滤截断。
package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/reelkit/core"
	"github.com/rushteam/reelkit/filter"
	"github.com/rushteam/reelkit/pipeline"
	"github.com/rushteam/reelkit/rank"
	"github.com/rushteam/reelkit/recall"
	"github.com/rushteam/reelkit/rerank"
)

// State 是一次请求的链路状态。
type State string

const (
	// StateNoHistory 目标用户没有任何交互：直接走热门兜底
	StateNoHistory State = "no_history"

	// StatePersonalizing 正常个性化链路
	StatePersonalizing State = "personalizing"

	// StateDegraded 三路生成器全部失败：只剩兜底链
	StateDegraded State = "degraded"

	// StateDone 终态，任何请求都以 Done 收尾
	StateDone State = "done"
)

// Recommender 是推荐服务的编排层。
//
// 错误传播策略：
//   - 生成器内部失败：就地捕获、记日志、当作该路产出为空，绝不透出
//   - 交互存储失败 / 目标用户无法解析：致命，以类型化错误透出
//
// 空结果与失败是两回事：调用方拿到 error 才是"算不出来"。
type Recommender struct {
	store    core.InteractionStore
	provider core.MetadataProvider
	genres   core.GenreNamer

	similarity    *recall.SimilarityEngine
	collaborative recall.Source
	content       recall.Source
	trending      recall.Source

	aggregator *rank.Aggregator
	post       *pipeline.Pipeline

	limits core.Limits
	logger zerolog.Logger

	// 构造期配置
	blend       core.BlendConfig
	simCfg      core.SimilarityConfig
	preferences recall.PreferenceSource
	filters     []filter.Filter
}

// Option 配置 Recommender。
type Option func(*Recommender)

// WithLogger 注入结构化日志。默认丢弃所有日志。
func WithLogger(l zerolog.Logger) Option {
	return func(r *Recommender) { r.logger = l }
}

// WithLimits 覆盖数量与并发上限。
func WithLimits(l core.Limits) Option {
	return func(r *Recommender) { r.limits = l }
}

// WithBlend 覆盖聚合器来源权重。
func WithBlend(b core.BlendConfig) Option {
	return func(r *Recommender) { r.blend = b }
}

// WithSimilarityConfig 覆盖相似度配置。
func WithSimilarityConfig(c core.SimilarityConfig) Option {
	return func(r *Recommender) { r.simCfg = c }
}

// WithPreferences 注入预计算的类型偏好源（Feast）。
func WithPreferences(p recall.PreferenceSource) Option {
	return func(r *Recommender) { r.preferences = p }
}

// WithFilters 追加聚合后的业务过滤器（例如 CEL 规则）。
func WithFilters(fs ...filter.Filter) Option {
	return func(r *Recommender) { r.filters = append(r.filters, fs...) }
}

func New(
	store core.InteractionStore,
	provider core.MetadataProvider,
	genres core.GenreNamer,
	opts ...Option,
) *Recommender {
	r := &Recommender{
		store:    store,
		provider: provider,
		genres:   genres,
		limits:   core.DefaultLimits(),
		logger:   zerolog.Nop(),
		blend:    core.DefaultBlendConfig(),
		simCfg:   core.DefaultSimilarityConfig(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.similarity = &recall.SimilarityEngine{Config: r.simCfg}
	r.collaborative = &recall.Collaborative{
		Store:             store,
		Provider:          provider,
		TopK:              r.limits.CollaborativeTopK,
		LookupConcurrency: r.limits.LookupConcurrency,
	}
	r.content = &recall.Content{
		Provider:    provider,
		Genres:      genres,
		Preferences: r.preferences,
		TopGenres:   r.limits.TopGenres,
		PerGenre:    r.limits.PerGenre,
	}
	r.trending = &recall.Trending{
		Provider: provider,
		Role:     recall.RoleSignal,
		Limit:    r.limits.TrendingSignal,
	}
	r.aggregator = &rank.Aggregator{
		Weights: r.blend,
		Fallback: &recall.Trending{
			Provider: provider,
			Role:     recall.RoleFallback,
			Limit:    r.limits.TrendingFallback,
		},
	}

	filters := append([]filter.Filter{&filter.SeenFilter{}}, r.filters...)
	r.post = &pipeline.Pipeline{Nodes: []pipeline.Node{
		&filter.FilterNode{Filters: filters},
		&rerank.TopN{N: r.limits.Result},
	}}
	return r
}

// Recommend 为用户生成推荐。生成器级失败永远不会透出给调用方；
// 返回 error 只有两种来源：交互存储不可用、入参无效。
func (r *Recommender) Recommend(ctx context.Context, userID string) ([]core.Recommendation, error) {
	if userID == "" {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput, "service: empty user id")
	}

	interactions, err := r.store.ListForUser(ctx, userID)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "service: load user history", err)
	}
	rctx := core.NewRecommendContext(userID, interactions)

	if len(interactions) == 0 {
		return r.noHistory(ctx, rctx), nil
	}
	return r.personalize(ctx, rctx)
}

// noHistory 冷启动：直接走热门兜底，兜底也失败时给引导候选。
func (r *Recommender) noHistory(ctx context.Context, rctx *core.RecommendContext) []core.Recommendation {
	r.logger.Debug().Str("user", rctx.UserID).Str("state", string(StateNoHistory)).Msg("no interaction history")

	cands, err := r.aggregator.Fallback.Recall(ctx, rctx)
	if err != nil {
		r.logger.Warn().Err(err).Str("user", rctx.UserID).Msg("trending fallback failed")
	}
	if len(cands) == 0 {
		cands = []*core.Candidate{rank.Placeholder()}
	}
	return r.render(ctx, cands)
}

type sourceResult struct {
	cands []*core.Candidate
	err   error
}

func (r *Recommender) personalize(ctx context.Context, rctx *core.RecommendContext) ([]core.Recommendation, error) {
	state := StatePersonalizing

	corpus, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "service: load interaction corpus", err)
	}

	rctx.SimilarUsers = r.similarity.SimilarUsers(rctx, corpus)
	rctx.LikedSummaries = r.resolveLiked(ctx, rctx)

	// 三路生成器并发执行；每一路的失败就地捕获，不中断其余
	results := make(map[string]*sourceResult, 3)
	sources := []recall.Source{r.collaborative, r.content, r.trending}
	eg, gctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		src := src
		res := &sourceResult{}
		results[src.Name()] = res
		eg.Go(func() error {
			res.cands, res.err = src.Recall(gctx, rctx)
			return nil
		})
	}
	_ = eg.Wait()

	failed := 0
	for _, src := range sources {
		if res := results[src.Name()]; res.err != nil {
			failed++
			r.logger.Error().Err(res.err).
				Str("user", rctx.UserID).
				Str("generator", src.Name()).
				Msg("generator failed, degrading to empty output")
			res.cands = nil
		}
	}
	if failed == len(sources) {
		state = StateDegraded
		r.logger.Warn().Str("user", rctx.UserID).Str("state", string(state)).
			Msg("all generators failed, serving fallback chain")
	}

	merged, err := r.aggregator.Merge(ctx, rctx,
		results[r.collaborative.Name()].cands,
		results[r.content.Name()].cands,
		results[r.trending.Name()].cands,
	)
	if err != nil {
		merged = []*core.Candidate{rank.Placeholder()}
	}

	out, err := r.post.Run(ctx, rctx, merged)
	if err != nil || len(out) == 0 {
		out = []*core.Candidate{rank.Placeholder()}
	}

	state = StateDone
	r.logger.Debug().Str("user", rctx.UserID).Str("state", string(state)).
		Int("results", len(out)).Msg("recommendation done")
	return r.render(ctx, out), nil
}

// resolveLiked 并发解析 liked 物品的元数据投影，失败的物品缺席。
// 按 itemID 升序解析，保证内容召回的输入顺序确定。
func (r *Recommender) resolveLiked(ctx context.Context, rctx *core.RecommendContext) []core.Summary {
	ids := make([]int64, 0, len(rctx.Liked))
	for id := range rctx.Liked {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	resolved := recall.ResolveSummaries(ctx, r.provider, ids, r.limits.LookupConcurrency)
	out := make([]core.Summary, 0, len(resolved))
	for _, s := range resolved {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// render 把候选转为输出结构，解析类型名。
func (r *Recommender) render(ctx context.Context, cands []*core.Candidate) []core.Recommendation {
	out := make([]core.Recommendation, 0, len(cands))
	for _, c := range cands {
		if c == nil {
			continue
		}
		genres := c.GenreNames
		if genres == nil {
			genres = make([]string, 0, len(c.GenreIDs))
			for _, id := range c.GenreIDs {
				name := "Unknown"
				if r.genres != nil {
					name = r.genres.GenreName(ctx, id)
				}
				genres = append(genres, name)
			}
		}
		out = append(out, c.Recommendation(genres))
	}
	return out
}
