// Package dsl 提供基于 CEL (Common Expression Language) 的候选规则表达式。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/reelkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("cand", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Expression 是编译好的候选规则表达式，可复用于多个候选。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：cand.rating < 3.0 / cand.score >= 0.5
//   - 字符串：cand.media_type == "tv"
//   - 标签：label.recall_source == "trending"
//   - 逻辑：cand.rating < 3.0 && label.recall_source != "collaborative"
//
// 注意：访问不存在的 label key 会报错，用 label.key != null 检查存在性。
type Expression struct {
	src string
	prg cel.Program
}

// Compile 编译表达式，编译结果可并发复用。
func Compile(expr string) (*Expression, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %v", err)
	}
	return &Expression{src: expr, prg: prg}, nil
}

// String 返回表达式源文本。
func (e *Expression) String() string { return e.src }

// Evaluate 对单个候选执行表达式，返回布尔结果。
func (e *Expression) Evaluate(cand *core.Candidate, rctx *core.RecommendContext) (bool, error) {
	out, _, err := e.prg.Eval(buildInput(cand, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

func buildInput(cand *core.Candidate, rctx *core.RecommendContext) map[string]any {
	// label.recall_source 直接取 Value；来源追踪走 cand.labels
	labelAccessor := make(map[string]any, len(cand.Labels))
	labels := make(map[string]any, len(cand.Labels))
	for k, v := range cand.Labels {
		labelAccessor[k] = v.Value
		labels[k] = map[string]any{"value": v.Value, "source": v.Source}
	}

	candInput := map[string]any{
		"id":         cand.ID,
		"title":      cand.Title,
		"media_type": string(cand.MediaType),
		"rating":     cand.Rating,
		"score":      cand.SimilarityScore,
		"weight":     cand.SourceWeight,
		"reason":     cand.Reason,
		"labels":     labels,
	}

	rctxInput := map[string]any{}
	if rctx != nil {
		rctxInput["user_id"] = rctx.UserID
		rctxInput["params"] = rctx.Params
	}

	return map[string]any{
		"cand":  candInput,
		"label": labelAccessor,
		"rctx":  rctxInput,
	}
}
