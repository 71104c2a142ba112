package core

import "strings"

// MediaType 是目录物品的类型标签（movie / tv）。
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeShow  MediaType = "tv"
)

// Summary 是 Movie / Show 的公共投影：推荐链路只依赖这份字段集合，
// 不关心物品的具体变体。
type Summary struct {
	ID          int64
	Title       string
	PosterURL   string // 完整图片 URL，空表示无海报
	Overview    string
	ReleaseYear string // 例如 "2024"，未知为 ""
	GenreIDs    []int64
	MediaType   MediaType
	Rating      float64 // 0-10 评分
}

// Item 是目录物品的带标签变体：Movie | Show。
// 元数据服务返回 Item，推荐链路通过 Summary() 取公共投影。
type Item interface {
	Summary() Summary
}

// Movie 是电影变体。
type Movie struct {
	ID          int64
	Title       string
	PosterURL   string
	Overview    string
	ReleaseDate string // "2024-07-01" 格式
	GenreIDs    []int64
	Rating      float64
}

func (m Movie) Summary() Summary {
	return Summary{
		ID:          m.ID,
		Title:       m.Title,
		PosterURL:   m.PosterURL,
		Overview:    m.Overview,
		ReleaseYear: yearOf(m.ReleaseDate),
		GenreIDs:    m.GenreIDs,
		MediaType:   MediaTypeMovie,
		Rating:      m.Rating,
	}
}

// Show 是剧集变体。
type Show struct {
	ID           int64
	Name         string
	PosterURL    string
	Overview     string
	FirstAirDate string
	GenreIDs     []int64
	Rating       float64
}

func (s Show) Summary() Summary {
	return Summary{
		ID:          s.ID,
		Title:       s.Name,
		PosterURL:   s.PosterURL,
		Overview:    s.Overview,
		ReleaseYear: yearOf(s.FirstAirDate),
		GenreIDs:    s.GenreIDs,
		MediaType:   MediaTypeShow,
		Rating:      s.Rating,
	}
}

// yearOf 从 "YYYY-MM-DD" 中取年份，空日期返回 ""。
func yearOf(date string) string {
	if date == "" {
		return ""
	}
	if i := strings.IndexByte(date, '-'); i > 0 {
		return date[:i]
	}
	return date
}
