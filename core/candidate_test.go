package core

import (
	"encoding/json"
	"testing"

	"github.com/rushteam/reelkit/pkg/utils"
)

func TestCandidate_Recommendation(t *testing.T) {
	c := NewCandidate(Summary{
		ID:          42,
		Title:       "Neon Harbor",
		PosterURL:   "https://image.tmdb.org/t/p/w500/x.jpg",
		Overview:    "A harbor at night.",
		ReleaseYear: "2023",
		MediaType:   MediaTypeMovie,
		Rating:      8.1,
	})
	c.SimilarityScore = 0.9
	c.Reason = "Trending now"

	r := c.Recommendation([]string{"Action", "Drama"})
	if r.ID != 42 || r.Title != "Neon Harbor" || r.Type != MediaTypeMovie {
		t.Errorf("Recommendation = %+v", r)
	}
	if r.Image == nil || *r.Image != "https://image.tmdb.org/t/p/w500/x.jpg" {
		t.Errorf("Image = %v, want poster URL", r.Image)
	}
	if r.Year != "2023" {
		t.Errorf("Year = %q, want 2023", r.Year)
	}
	if len(r.Genres) != 2 || r.Genres[0] != "Action" {
		t.Errorf("Genres = %v", r.Genres)
	}
	if r.SimilarityScore != 0.9 || r.RecommendationReason != "Trending now" {
		t.Errorf("score/reason = %v / %q", r.SimilarityScore, r.RecommendationReason)
	}
}

func TestCandidate_RecommendationMissingFields(t *testing.T) {
	c := NewCandidate(Summary{ID: 7, Title: "No Art", MediaType: MediaTypeShow})

	r := c.Recommendation(nil)
	// 无海报时 image 序列化为 null，未知年份为 "Unknown"
	if r.Image != nil {
		t.Errorf("Image = %v, want nil", r.Image)
	}
	if r.Year != "Unknown" {
		t.Errorf("Year = %q, want Unknown", r.Year)
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded["image"] != nil {
		t.Errorf(`json image = %v, want null`, decoded["image"])
	}
	if decoded["type"] != "tv" {
		t.Errorf(`json type = %v, want "tv"`, decoded["type"])
	}
}

func TestCandidate_PutLabelMerges(t *testing.T) {
	c := NewCandidate(Summary{ID: 1})
	c.PutLabel("recall_source", utils.Label{Value: "collaborative", Source: "recall"})
	c.PutLabel("recall_source", utils.Label{Value: "trending", Source: "recall"})

	lbl, ok := c.Labels["recall_source"]
	if !ok {
		t.Fatal("label missing after merge")
	}
	if lbl.Value != "collaborative|trending" {
		t.Errorf("merged label value = %q, want accumulated history", lbl.Value)
	}
}
