// Package reelkit 是一个影视混合推荐工具包（Reel Kit）。
//
// 设计要点：
// - 三路生成器（协同过滤 / 内容 / 热门）并发召回，聚合时加权合并去重
// - 失败隔离：单路生成器失败降级为空产出，兜底链保证永远有结果
// - Pipeline 可扩展：聚合后的过滤 / 截断通过 Node 串联，支持配置化装配
package reelkit

import "github.com/rushteam/reelkit/pipeline"

// 轻量 facade：便于用户直接 import "reelkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall    = pipeline.KindRecall
	KindFilter    = pipeline.KindFilter
	KindAggregate = pipeline.KindAggregate
	KindReRank    = pipeline.KindReRank
)
