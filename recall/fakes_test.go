package recall

import (
	"context"

	"github.com/rushteam/reelkit/core"
)

// fakeStore 是测试用的交互存储。
type fakeStore struct {
	interactions []core.Interaction
	listLikedErr error
}

func (s *fakeStore) Name() string { return "fake" }

func (s *fakeStore) ListForUser(_ context.Context, userID string) ([]core.Interaction, error) {
	var out []core.Interaction
	for _, in := range s.interactions {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (s *fakeStore) ListAll(_ context.Context) ([]core.Interaction, error) {
	return s.interactions, nil
}

func (s *fakeStore) ListLikedByUsers(_ context.Context, userIDs []string) ([]core.Interaction, error) {
	if s.listLikedErr != nil {
		return nil, s.listLikedErr
	}
	members := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		members[id] = struct{}{}
	}
	var out []core.Interaction
	for _, in := range s.interactions {
		if _, ok := members[in.UserID]; ok && in.Liked {
			out = append(out, in)
		}
	}
	return out, nil
}

func (s *fakeStore) Record(_ context.Context, in core.Interaction) error {
	s.interactions = append(s.interactions, in)
	return nil
}

func (s *fakeStore) Delete(_ context.Context, _ string, _ int64) error { return nil }
func (s *fakeStore) Close() error                                     { return nil }

// fakeProvider 是测试用的元数据服务。
type fakeProvider struct {
	items    map[int64]core.Item
	failIDs  core.ItemSet          // GetByID 返回外部服务错误
	byGenre  map[int64][]core.Item // PopularByGenre 的返回
	trending []core.Item

	trendingErr error
	genreErr    error
}

func (p *fakeProvider) GetByID(_ context.Context, itemID int64, _ core.MediaType) (core.Item, error) {
	if p.failIDs.Has(itemID) {
		return nil, core.NewExternalServiceError("fake: boom", nil)
	}
	it, ok := p.items[itemID]
	if !ok {
		return nil, core.ErrItemNotFound
	}
	return it, nil
}

func (p *fakeProvider) Trending(_ context.Context, limit int) ([]core.Item, error) {
	if p.trendingErr != nil {
		return nil, p.trendingErr
	}
	if limit < len(p.trending) {
		return p.trending[:limit], nil
	}
	return p.trending, nil
}

func (p *fakeProvider) PopularByGenre(_ context.Context, genreID int64, limit int) ([]core.Item, error) {
	if p.genreErr != nil {
		return nil, p.genreErr
	}
	items := p.byGenre[genreID]
	if limit < len(items) {
		return items[:limit], nil
	}
	return items, nil
}

// fakeGenres 按固定表解析类型名。
type fakeGenres map[int64]string

func (g fakeGenres) GenreName(_ context.Context, id int64) string {
	if name, ok := g[id]; ok {
		return name
	}
	return "Unknown"
}

func movie(id int64, title string, rating float64, genreIDs ...int64) core.Movie {
	return core.Movie{ID: id, Title: title, ReleaseDate: "2024-01-01", GenreIDs: genreIDs, Rating: rating}
}

func candidateIDs(cands []*core.Candidate) []int64 {
	out := make([]int64, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.ID)
	}
	return out
}
