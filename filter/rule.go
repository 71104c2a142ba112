package filter

import (
	"context"

	"github.com/rushteam/reelkit/core"
	"github.com/rushteam/reelkit/pkg/dsl"
)

// RuleFilter 是表达式驱动的过滤器：CEL 表达式命中（求值为 true）的候选被过滤。
// 用于配置化的业务规则，例如剔除低分内容：
//
//	f, _ := filter.NewRuleFilter(`cand.rating < 3.0`)
type RuleFilter struct {
	expr *dsl.Expression
}

// NewRuleFilter 编译表达式并创建过滤器，表达式非法时返回错误。
func NewRuleFilter(expr string) (*RuleFilter, error) {
	compiled, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RuleFilter{expr: compiled}, nil
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	cand *core.Candidate,
) (bool, error) {
	if cand == nil {
		return true, nil
	}
	return f.expr.Evaluate(cand, rctx)
}
