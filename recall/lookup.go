package recall

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/reelkit/core"
)

// ResolveSummaries 并发解析一批物品 ID 的元数据投影，在途并发由
// concurrency 限制（<=0 时取默认值），避免打爆外部服务的限流。
// 单个物品解析失败只意味着该物品缺席，不中断整批；返回切片与 ids 等长，
// 失败位为 nil。
func ResolveSummaries(
	ctx context.Context,
	provider core.MetadataProvider,
	ids []int64,
	concurrency int,
) []*core.Summary {
	if len(ids) == 0 {
		return nil
	}
	if concurrency <= 0 {
		concurrency = core.DefaultLimits().LookupConcurrency
	}

	out := make([]*core.Summary, len(ids))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	for i, id := range ids {
		i, id := i, id
		eg.Go(func() error {
			item, err := provider.GetByID(gctx, id, "")
			if err != nil {
				// NOT_FOUND 与外部失败同样处理：该候选缺席
				return nil
			}
			s := item.Summary()
			out[i] = &s
			return nil
		})
	}
	_ = eg.Wait()
	return out
}
