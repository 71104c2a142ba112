package recall

import (
	"math"
	"testing"

	"github.com/rushteam/reelkit/core"
)

func likes(userID string, itemIDs ...int64) []core.Interaction {
	out := make([]core.Interaction, 0, len(itemIDs))
	for _, id := range itemIDs {
		out = append(out, core.Interaction{UserID: userID, ItemID: id, Liked: true})
	}
	return out
}

func dislikes(userID string, itemIDs ...int64) []core.Interaction {
	out := make([]core.Interaction, 0, len(itemIDs))
	for _, id := range itemIDs {
		out = append(out, core.Interaction{UserID: userID, ItemID: id, Liked: false})
	}
	return out
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSimilarityEngine_SimilarUsers(t *testing.T) {
	tests := []struct {
		name   string
		config core.SimilarityConfig
		target []core.Interaction
		corpus []core.Interaction
		want   []core.SimilarityScore
	}{
		{
			name:   "liked overlap weighted 0.7",
			target: likes("me", 1, 2, 3),
			// jaccard(liked) = |{1,2}| / |{1,2,3,4}| = 0.5
			corpus: likes("u1", 1, 2, 4),
			want:   []core.SimilarityScore{{UserID: "u1", Score: 0.35}},
		},
		{
			name:   "disliked overlap contributes 0.3",
			target: append(likes("me", 1), dislikes("me", 9)...),
			corpus: append(likes("u1", 1), dislikes("u1", 9)...),
			want:   []core.SimilarityScore{{UserID: "u1", Score: 1.0}},
		},
		{
			name:   "below threshold is dropped",
			target: likes("me", 1, 2, 3, 4, 5),
			// jaccard = 1/10 = 0.1, score = 0.07 < 0.1
			corpus: likes("u1", 5, 6, 7, 8, 9, 10),
			want:   nil,
		},
		{
			name:   "target user excluded from corpus",
			target: likes("me", 1, 2),
			corpus: append(likes("me", 1, 2), likes("u1", 1, 2)...),
			want:   []core.SimilarityScore{{UserID: "u1", Score: 0.7}},
		},
		{
			name:   "equal scores ordered by user id",
			target: likes("me", 1, 2),
			corpus: append(likes("zed", 1, 2), likes("amy", 1, 2)...),
			want: []core.SimilarityScore{
				{UserID: "amy", Score: 0.7},
				{UserID: "zed", Score: 0.7},
			},
		},
		{
			name:   "no shared items",
			target: likes("me", 1, 2),
			corpus: likes("u1", 3, 4),
			want:   nil,
		},
		{
			name:   "empty corpus",
			target: likes("me", 1),
			corpus: nil,
			want:   nil,
		},
		{
			name:   "top k truncation keeps highest scores",
			config: core.SimilarityConfig{TopK: 2},
			target: likes("me", 1, 2, 3),
			corpus: join(
				likes("u1", 1, 2, 3), // jaccard 1.0 -> 0.7
				likes("u2", 1, 2, 4), // jaccard 0.5 -> 0.35
				likes("u3", 1, 4, 5), // jaccard 0.2 -> 0.14
			),
			want: []core.SimilarityScore{
				{UserID: "u1", Score: 0.7},
				{UserID: "u2", Score: 0.35},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &SimilarityEngine{Config: tt.config}
			rctx := core.NewRecommendContext("me", tt.target)

			got := engine.SimilarUsers(rctx, tt.corpus)
			if len(got) != len(tt.want) {
				t.Fatalf("SimilarUsers() returned %d scores, want %d: %+v", len(got), len(tt.want), got)
			}
			for i, w := range tt.want {
				if got[i].UserID != w.UserID {
					t.Errorf("scores[%d].UserID = %q, want %q", i, got[i].UserID, w.UserID)
				}
				if !floatEq(got[i].Score, w.Score) {
					t.Errorf("scores[%d].Score = %v, want %v", i, got[i].Score, w.Score)
				}
			}
		})
	}
}

func TestSimilarityEngine_NilContext(t *testing.T) {
	engine := &SimilarityEngine{}
	if got := engine.SimilarUsers(nil, likes("u1", 1)); got != nil {
		t.Errorf("SimilarUsers(nil) = %+v, want nil", got)
	}
}

func join(lists ...[]core.Interaction) []core.Interaction {
	var out []core.Interaction
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
