package web

import (
	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/mirror/internal/rating/internal/domain"
)

type SubmitRatingReq struct {
	TestSN string `json:"testSn"`
	// ItemKind photo / prompt
	ItemKind string `json:"itemKind"`
	ItemID   int64  `json:"itemId"`
	// Value keep / neutral / delete
	Value     string `json:"value"`
	Feedback  string `json:"feedback"`
	Anonymous bool   `json:"anonymous"`
}

type ItemDetailReq struct {
	ItemID int64 `json:"itemId"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
}

type ItemAggregate struct {
	ItemKind string `json:"itemKind"`
	ItemID   int64  `json:"itemId"`
	Keep     int64  `json:"keep"`
	Neutral  int64  `json:"neutral"`
	Remove   int64  `json:"remove"`
	Total    int64  `json:"total"`
	Score    int64  `json:"score"`
}

type Rating struct {
	// RaterID 匿名评分时为 0
	RaterID  int64  `json:"raterId,omitempty"`
	Value    string `json:"value"`
	Feedback string `json:"feedback,omitempty"`
	Ctime    int64  `json:"ctime"`
}

type ProfileSummaryResp struct {
	Photos  []ItemAggregate `json:"photos,omitempty"`
	Prompts []ItemAggregate `json:"prompts,omitempty"`
	Total   ItemAggregate   `json:"total"`
}

type ItemDetailResp struct {
	Aggregate ItemAggregate `json:"aggregate"`
	Ratings   []Rating      `json:"ratings,omitempty"`
}

func newItemAggregate(a domain.ItemAggregate) ItemAggregate {
	return ItemAggregate{
		ItemKind: a.ItemKind.String(),
		ItemID:   a.ItemID,
		Keep:     a.Keep,
		Neutral:  a.Neutral,
		Remove:   a.Remove,
		Total:    a.Total,
		Score:    a.Score,
	}
}

func newItemDetailResp(aggr domain.ItemAggregate, ratings []domain.Rating) ItemDetailResp {
	return ItemDetailResp{
		Aggregate: newItemAggregate(aggr),
		Ratings: slice.Map(ratings, func(idx int, src domain.Rating) Rating {
			return Rating{
				RaterID:  src.RaterID,
				Value:    src.Value.String(),
				Feedback: src.Feedback,
				Ctime:    src.Ctime,
			}
		}),
	}
}
