package core

import "github.com/rushteam/reelkit/pkg/utils"

// Candidate 是推荐链路中的统一承载结构：聚合前的带分、带理由候选。
// Labels 用于解释与策略驱动；SimilarityScore 用于排序决策。
type Candidate struct {
	Summary

	// SourceWeight 是来源权重，由聚合器标注；多来源命中时累加
	SourceWeight float64

	// SimilarityScore 是生成器打出的分数，恒 >= 0；多来源命中时累加
	SimilarityScore float64

	// Reason 是面向用户的推荐理由
	Reason string

	// GenreNames 是已解析的类型名；为空时由 GenreNamer 按 GenreIDs 解析
	GenreNames []string

	Labels map[string]utils.Label
}

func NewCandidate(s Summary) *Candidate {
	return &Candidate{
		Summary: s,
		Labels:  make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// Recommendation 是对外的 JSON 输出 schema。
type Recommendation struct {
	ID                   int64     `json:"id"`
	Title                string    `json:"title"`
	Image                *string   `json:"image"`
	Type                 MediaType `json:"type"`
	Description          string    `json:"description"`
	Year                 string    `json:"year"`
	Genres               []string  `json:"genres"`
	Rating               float64   `json:"rating"`
	SimilarityScore      float64   `json:"similarityScore"`
	RecommendationReason string    `json:"recommendationReason"`
}

// Recommendation 把候选转为输出结构；genres 为解析好的类型名。
func (c *Candidate) Recommendation(genres []string) Recommendation {
	var image *string
	if c.PosterURL != "" {
		u := c.PosterURL
		image = &u
	}
	year := c.ReleaseYear
	if year == "" {
		year = "Unknown"
	}
	return Recommendation{
		ID:                   c.ID,
		Title:                c.Title,
		Image:                image,
		Type:                 c.MediaType,
		Description:          c.Overview,
		Year:                 year,
		Genres:               genres,
		Rating:               c.Rating,
		SimilarityScore:      c.SimilarityScore,
		RecommendationReason: c.Reason,
	}
}
