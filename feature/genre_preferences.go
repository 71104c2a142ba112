// Package feature 对接 Feast Feature Store，为内容召回提供预计算的
// 用户类型偏好。离线任务把每个用户的 genre 亲和度物化到在线存储，
// 这里按需取回；取不到时内容召回退回现算（见 recall.Content）。
package feature

import (
	"context"
	"fmt"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/rushteam/reelkit/recall"
)

// OnlineClient 是 Feast 在线特征客户端的最小接口，*feastsdk.GrpcClient 满足它。
type OnlineClient interface {
	GetOnlineFeatures(ctx context.Context, req *feastsdk.OnlineFeaturesRequest) (*feastsdk.OnlineFeaturesResponse, error)
}

// GenrePreferences 实现 recall.PreferenceSource：按用户取回 genre 亲和度。
//
// 特征命名约定：{FeatureView}:g{genreID}，例如 "user_genre_affinities:g28"。
// 实体键为 EntityKey（默认 "user_id"）。
type GenrePreferences struct {
	client  OnlineClient
	project string

	// FeatureView 特征视图名，默认 "user_genre_affinities"
	FeatureView string

	// EntityKey 实体键名，默认 "user_id"
	EntityKey string

	// GenreIDs 取回哪些类型的亲和度
	GenreIDs []int64
}

// Dial 连接 Feast Feature Server 并创建 GenrePreferences。
func Dial(host string, port int, project string, genreIDs []int64) (*GenrePreferences, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("feast grpc client: %w", err)
	}
	return NewGenrePreferences(client, project, genreIDs), nil
}

func NewGenrePreferences(client OnlineClient, project string, genreIDs []int64) *GenrePreferences {
	return &GenrePreferences{
		client:      client,
		project:     project,
		FeatureView: "user_genre_affinities",
		EntityKey:   "user_id",
		GenreIDs:    genreIDs,
	}
}

// GenreAffinities 返回 genreID -> 亲和度（0-1）。缺失的特征值缺席，
// 全部缺失时返回空 map（调用方退回现算）。
func (p *GenrePreferences) GenreAffinities(ctx context.Context, userID string) (map[int64]float64, error) {
	if p.client == nil || len(p.GenreIDs) == 0 {
		return nil, nil
	}

	refs := make([]string, len(p.GenreIDs))
	for i, genreID := range p.GenreIDs {
		refs[i] = fmt.Sprintf("%s:g%d", p.FeatureView, genreID)
	}

	resp, err := p.client.GetOnlineFeatures(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: refs,
		Entities: []feastsdk.Row{{p.EntityKey: feastsdk.StrVal(userID)}},
		Project:  p.project,
	})
	if err != nil {
		return nil, fmt.Errorf("feast get online features: %w", err)
	}

	rows := resp.Rows()
	if len(rows) == 0 {
		return nil, nil
	}

	out := make(map[int64]float64, len(p.GenreIDs))
	for i, genreID := range p.GenreIDs {
		val, ok := rows[0][refs[i]]
		if !ok {
			continue
		}
		if f, ok := floatValue(val); ok {
			out[genreID] = f
		}
	}
	return out, nil
}

func floatValue(v *feasttypes.Value) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.Val.(type) {
	case *feasttypes.Value_DoubleVal:
		return val.DoubleVal, true
	case *feasttypes.Value_FloatVal:
		return float64(val.FloatVal), true
	case *feasttypes.Value_Int64Val:
		return float64(val.Int64Val), true
	case *feasttypes.Value_Int32Val:
		return float64(val.Int32Val), true
	default:
		return 0, false
	}
}

var _ recall.PreferenceSource = (*GenrePreferences)(nil)
