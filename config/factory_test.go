package config

import (
	"context"
	"testing"

	"github.com/rushteam/reelkit/core"
	"github.com/rushteam/reelkit/pipeline"
	"github.com/rushteam/reelkit/recall"
	"github.com/rushteam/reelkit/rerank"
)

type stubProvider struct{}

func (p *stubProvider) GetByID(_ context.Context, _ int64, _ core.MediaType) (core.Item, error) {
	return nil, core.ErrItemNotFound
}

func (p *stubProvider) Trending(_ context.Context, limit int) ([]core.Item, error) {
	items := []core.Item{
		core.Movie{ID: 1, Title: "One", Rating: 8.0},
		core.Movie{ID: 2, Title: "Two", Rating: 7.0},
	}
	if limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

func (p *stubProvider) PopularByGenre(_ context.Context, _ int64, _ int) ([]core.Item, error) {
	return nil, nil
}

func TestDefaultFactory_BuildsNodes(t *testing.T) {
	factory := DefaultFactory(Deps{Provider: &stubProvider{}})

	cfg := &pipeline.Config{}
	cfg.Pipeline.Name = "trending_feed"
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{
		{Type: "recall.trending", Config: map[string]any{"role": "fallback", "limit": 2}},
		{Type: "filter", Config: map[string]any{"rules": []any{`cand.rating < 7.5`}}},
		{Type: "rerank.topn", Config: map[string]any{"n": 5}},
	}

	p, err := cfg.BuildPipeline(factory)
	if err != nil {
		t.Fatalf("BuildPipeline() error = %v", err)
	}
	if len(p.Nodes) != 3 {
		t.Fatalf("pipeline has %d nodes, want 3", len(p.Nodes))
	}

	trending, ok := p.Nodes[0].(*recall.Trending)
	if !ok {
		t.Fatalf("node 0 = %T, want *recall.Trending", p.Nodes[0])
	}
	if trending.Role != recall.RoleFallback || trending.Limit != 2 {
		t.Errorf("trending node = %+v, want fallback role with limit 2", trending)
	}
	if topn, ok := p.Nodes[2].(*rerank.TopN); !ok || topn.N != 5 {
		t.Errorf("node 2 = %+v, want TopN{N: 5}", p.Nodes[2])
	}

	// 端到端执行：低分的 2 被规则过滤
	got, err := p.Run(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("Run() = %v, want only item 1", got)
	}
}

func TestDefaultFactory_Errors(t *testing.T) {
	tests := []struct {
		name string
		deps Deps
		node pipeline.NodeConfig
	}{
		{
			name: "unknown node type",
			deps: Deps{Provider: &stubProvider{}},
			node: pipeline.NodeConfig{Type: "recall.unknown"},
		},
		{
			name: "trending without provider",
			deps: Deps{},
			node: pipeline.NodeConfig{Type: "recall.trending"},
		},
		{
			name: "non-string rule",
			deps: Deps{Provider: &stubProvider{}},
			node: pipeline.NodeConfig{Type: "filter", Config: map[string]any{"rules": []any{42}}},
		},
		{
			name: "invalid rule expression",
			deps: Deps{Provider: &stubProvider{}},
			node: pipeline.NodeConfig{Type: "filter", Config: map[string]any{"rules": []any{`cand.rating <`}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := DefaultFactory(tt.deps)
			cfg := &pipeline.Config{}
			cfg.Pipeline.Nodes = []pipeline.NodeConfig{tt.node}
			if _, err := cfg.BuildPipeline(factory); err == nil {
				t.Error("BuildPipeline() error = nil, want error")
			}
		})
	}
}
