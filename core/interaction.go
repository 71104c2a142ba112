package core

import "time"

// Interaction 是一条用户对物品的喜好记录。核心链路只读取它，
// 每个 (UserID, ItemID) 至多一条由存储层保证。
type Interaction struct {
	UserID    string
	ItemID    int64
	Liked     bool
	Timestamp time.Time
}

// ItemSet 是物品 ID 集合。
type ItemSet map[int64]struct{}

func NewItemSet(ids ...int64) ItemSet {
	s := make(ItemSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s ItemSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s ItemSet) Add(id int64) {
	s[id] = struct{}{}
}

// PreferenceSets 把交互记录拆成 liked / disliked 两个物品集合。
func PreferenceSets(interactions []Interaction) (liked, disliked ItemSet) {
	liked = make(ItemSet)
	disliked = make(ItemSet)
	for _, in := range interactions {
		if in.Liked {
			liked.Add(in.ItemID)
		} else {
			disliked.Add(in.ItemID)
		}
	}
	return liked, disliked
}

// SimilarityScore 是一次请求内计算出的用户相似度，分数在 [0,1]。
type SimilarityScore struct {
	UserID string
	Score  float64
}
