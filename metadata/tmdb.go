// Package metadata 实现元数据服务：TMDB 风格的目录 API 客户端与类型名缓存。
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/rushteam/reelkit/core"
)

const (
	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p/w500"

	// 默认限流：外部服务按 IP 限流约 50 req/s，留出余量
	defaultRateLimit = 40
)

// TMDB 是 core.MetadataProvider 的 HTTP 实现。
// 只读、可能失败、有限流：每次调用带超时与令牌桶限流，
// 失败统一映射为 ModuleMetadata 的 DomainError。
type TMDB struct {
	apiKey   string
	baseURL  string
	imageURL string
	client   *http.Client
	limiter  *rate.Limiter
	timeout  time.Duration
}

// Option 配置 TMDB 客户端。
type Option func(*TMDB)

// WithBaseURL 覆盖 API 地址（测试用 stub server）。
func WithBaseURL(u string) Option {
	return func(t *TMDB) { t.baseURL = u }
}

// WithHTTPClient 覆盖底层 HTTP 客户端。
func WithHTTPClient(c *http.Client) Option {
	return func(t *TMDB) { t.client = c }
}

// WithTimeout 覆盖单次调用超时。
func WithTimeout(d time.Duration) Option {
	return func(t *TMDB) { t.timeout = d }
}

// WithRateLimit 覆盖每秒请求上限。
func WithRateLimit(rps int) Option {
	return func(t *TMDB) { t.limiter = rate.NewLimiter(rate.Limit(rps), rps) }
}

func NewTMDB(apiKey string, opts ...Option) *TMDB {
	t := &TMDB{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		imageURL: defaultImageBaseURL,
		client:   &http.Client{},
		limiter:  rate.NewLimiter(rate.Limit(defaultRateLimit), defaultRateLimit),
		timeout:  core.DefaultLimits().ProviderTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type genreDoc struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// movieDoc 兼容列表响应（genre_ids）与详情响应（genres）两种形态。
type movieDoc struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Name         string     `json:"name"`
	PosterPath   string     `json:"poster_path"`
	Overview     string     `json:"overview"`
	ReleaseDate  string     `json:"release_date"`
	FirstAirDate string     `json:"first_air_date"`
	VoteAverage  float64    `json:"vote_average"`
	GenreIDs     []int64    `json:"genre_ids"`
	Genres       []genreDoc `json:"genres"`
	MediaType    string     `json:"media_type"`
}

func (d *movieDoc) genreIDs() []int64 {
	if len(d.GenreIDs) > 0 {
		return d.GenreIDs
	}
	ids := make([]int64, 0, len(d.Genres))
	for _, g := range d.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

func (t *TMDB) item(d *movieDoc, mediaType core.MediaType) core.Item {
	poster := ""
	if d.PosterPath != "" {
		poster = t.imageURL + d.PosterPath
	}
	if mediaType == core.MediaTypeShow {
		name := d.Name
		if name == "" {
			name = d.Title
		}
		return core.Show{
			ID:           d.ID,
			Name:         name,
			PosterURL:    poster,
			Overview:     d.Overview,
			FirstAirDate: d.FirstAirDate,
			GenreIDs:     d.genreIDs(),
			Rating:       d.VoteAverage,
		}
	}
	title := d.Title
	if title == "" {
		title = d.Name
	}
	return core.Movie{
		ID:          d.ID,
		Title:       title,
		PosterURL:   poster,
		Overview:    d.Overview,
		ReleaseDate: d.ReleaseDate,
		GenreIDs:    d.genreIDs(),
		Rating:      d.VoteAverage,
	}
}

// get 执行一次带限流、超时的 GET 并解码 JSON。
// 404 返回 core.ErrItemNotFound，其余非 2xx 返回外部服务错误。
func (t *TMDB) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return core.NewExternalServiceError("tmdb: rate limiter", err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", t.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return core.NewExternalServiceError("tmdb: build request", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return core.NewExternalServiceError(fmt.Sprintf("tmdb: GET %s", path), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return core.ErrItemNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return core.NewExternalServiceError(fmt.Sprintf("tmdb: GET %s returned %d", path, resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return core.NewExternalServiceError(fmt.Sprintf("tmdb: decode %s", path), err)
	}
	return nil
}

// GetByID 按物品 ID 查详情。无提示时先查电影、404 再查剧集，
// 与历史数据中混存两种 ID 的行为保持一致。
func (t *TMDB) GetByID(ctx context.Context, itemID int64, hint core.MediaType) (core.Item, error) {
	order := []core.MediaType{core.MediaTypeMovie, core.MediaTypeShow}
	if hint == core.MediaTypeShow {
		order = []core.MediaType{core.MediaTypeShow, core.MediaTypeMovie}
	}

	var lastErr error
	for _, mt := range order {
		path := fmt.Sprintf("/movie/%d", itemID)
		if mt == core.MediaTypeShow {
			path = fmt.Sprintf("/tv/%d", itemID)
		}
		var doc movieDoc
		err := t.get(ctx, path, nil, &doc)
		if err == nil {
			return t.item(&doc, mt), nil
		}
		lastErr = err
		if !core.IsNotFound(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

type resultsDoc struct {
	Results []movieDoc `json:"results"`
}

// Trending 返回最近一周的热门电影与剧集。
func (t *TMDB) Trending(ctx context.Context, limit int) ([]core.Item, error) {
	var doc resultsDoc
	if err := t.get(ctx, "/trending/all/week", nil, &doc); err != nil {
		return nil, err
	}

	out := make([]core.Item, 0, limit)
	for i := range doc.Results {
		if limit > 0 && len(out) >= limit {
			break
		}
		mt := core.MediaTypeMovie
		if doc.Results[i].MediaType == string(core.MediaTypeShow) {
			mt = core.MediaTypeShow
		}
		out = append(out, t.item(&doc.Results[i], mt))
	}
	return out, nil
}

// PopularByGenre 返回某类型下按热度排序的电影。
func (t *TMDB) PopularByGenre(ctx context.Context, genreID int64, limit int) ([]core.Item, error) {
	params := url.Values{}
	params.Set("with_genres", fmt.Sprintf("%d", genreID))
	params.Set("sort_by", "popularity.desc")
	params.Set("page", "1")

	var doc resultsDoc
	if err := t.get(ctx, "/discover/movie", params, &doc); err != nil {
		return nil, err
	}

	out := make([]core.Item, 0, limit)
	for i := range doc.Results {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, t.item(&doc.Results[i], core.MediaTypeMovie))
	}
	return out, nil
}

type genreListDoc struct {
	Genres []genreDoc `json:"genres"`
}

// ListGenres 返回电影与剧集类型表的并集，用于填充 GenreCache。
// 两个端点都失败才算失败。
func (t *TMDB) ListGenres(ctx context.Context) (map[int64]string, error) {
	out := make(map[int64]string)
	var lastErr error
	for _, path := range []string{"/genre/movie/list", "/genre/tv/list"} {
		var doc genreListDoc
		if err := t.get(ctx, path, nil, &doc); err != nil {
			lastErr = err
			continue
		}
		for _, g := range doc.Genres {
			out[g.ID] = g.Name
		}
	}
	if len(out) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}

var _ core.MetadataProvider = (*TMDB)(nil)
