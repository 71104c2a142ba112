package recall

import (
	"context"

	"github.com/rushteam/reelkit/core"
)

// Source 表示一个可并发 fan-out 的候选生成源（协同/内容/热门）。
// Source 内部的失败以 error 返回，由编排层决定降级策略，不在这里吞掉。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Candidate, error)
}
