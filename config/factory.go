// Package config 把配置文件里的节点声明映射为可运行的 Pipeline 节点。
package config

import (
	"fmt"

	"github.com/rushteam/reelkit/core"
	"github.com/rushteam/reelkit/filter"
	"github.com/rushteam/reelkit/pipeline"
	"github.com/rushteam/reelkit/pkg/conv"
	"github.com/rushteam/reelkit/recall"
	"github.com/rushteam/reelkit/rerank"
)

// Deps 是节点构建所需的外部依赖。配置文件只描述结构与参数，
// 依赖实例由调用方注入。
type Deps struct {
	Provider core.MetadataProvider
}

// DefaultFactory 返回注册了全部内置节点类型的工厂：
//
//	recall.trending  config: role (signal|fallback), limit
//	filter           config: seen (bool, 默认 true), rules ([]string CEL 表达式)
//	rerank.topn      config: n
func DefaultFactory(deps Deps) *pipeline.NodeFactory {
	f := pipeline.NewNodeFactory()

	f.Register("recall.trending", func(cfg map[string]any) (pipeline.Node, error) {
		if deps.Provider == nil {
			return nil, fmt.Errorf("recall.trending: metadata provider not set")
		}
		role := recall.RoleSignal
		if conv.ConfigGet(cfg, "role", "signal") == "fallback" {
			role = recall.RoleFallback
		}
		return &recall.Trending{
			Provider: deps.Provider,
			Role:     role,
			Limit:    int(conv.ConfigGetInt64(cfg, "limit", 0)),
		}, nil
	})

	f.Register("filter", func(cfg map[string]any) (pipeline.Node, error) {
		var filters []filter.Filter
		if conv.ConfigGet(cfg, "seen", true) {
			filters = append(filters, &filter.SeenFilter{})
		}
		for i, raw := range conv.ConfigGet(cfg, "rules", []any(nil)) {
			expr, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("filter: rules[%d] is not a string", i)
			}
			rule, err := filter.NewRuleFilter(expr)
			if err != nil {
				return nil, fmt.Errorf("filter: rules[%d]: %w", i, err)
			}
			filters = append(filters, rule)
		}
		return &filter.FilterNode{Filters: filters}, nil
	})

	f.Register("rerank.topn", func(cfg map[string]any) (pipeline.Node, error) {
		return &rerank.TopN{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
	})

	return f
}
