// Copyright 2024 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package repository

import (
	"context"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/mirror/internal/rating/internal/domain"
	"github.com/ecodeclub/mirror/internal/rating/internal/repository/dao"
)

var ErrRecordNotFound = dao.ErrRecordNotFound

type RatingRepository interface {
	Create(ctx context.Context, r domain.Rating) (int64, error)
	AggregateByItem(ctx context.Context, kind domain.ItemKind, itemID int64) (domain.ItemAggregate, error)
	ListByItem(ctx context.Context, kind domain.ItemKind, itemID int64, offset, limit int) ([]domain.Rating, error)
	// HasRated 同一个测试里, 评分人是否已经评过该条目
	HasRated(ctx context.Context, testID int64, kind domain.ItemKind, itemID, raterID int64) (bool, error)
}

type ratingRepository struct {
	dao dao.RatingDAO
}

func NewRatingRepository(dao dao.RatingDAO) RatingRepository {
	return &ratingRepository{dao: dao}
}

func (r *ratingRepository) Create(ctx context.Context, rating domain.Rating) (int64, error) {
	return r.dao.Create(ctx, dao.Rating{
		TestId:      rating.TestID,
		RaterId:     rating.RaterID,
		ItemKind:    uint8(rating.ItemKind),
		ItemId:      rating.ItemID,
		RatingValue: uint8(rating.Value),
		Feedback:    rating.Feedback,
		Anonymous:   rating.Anonymous,
	})
}

func (r *ratingRepository) AggregateByItem(ctx context.Context, kind domain.ItemKind, itemID int64) (domain.ItemAggregate, error) {
	counts, err := r.dao.CountByItem(ctx, uint8(kind), itemID)
	if err != nil {
		return domain.ItemAggregate{}, err
	}
	keep := counts[dao.RatingValueKeep]
	neutral := counts[dao.RatingValueNeutral]
	remove := counts[dao.RatingValueDelete]
	return domain.ItemAggregate{
		ItemKind: kind,
		ItemID:   itemID,
		Keep:     keep,
		Neutral:  neutral,
		Remove:   remove,
		Total:    keep + neutral + remove,
		Score:    keep - remove,
	}, nil
}

func (r *ratingRepository) ListByItem(ctx context.Context, kind domain.ItemKind, itemID int64, offset, limit int) ([]domain.Rating, error) {
	ratings, err := r.dao.FindByItem(ctx, uint8(kind), itemID, offset, limit)
	return slice.Map(ratings, func(idx int, src dao.Rating) domain.Rating {
		return domain.Rating{
			ID:        src.Id,
			TestID:    src.TestId,
			RaterID:   src.RaterId,
			ItemKind:  domain.ItemKind(src.ItemKind),
			ItemID:    src.ItemId,
			Value:     domain.Value(src.RatingValue),
			Feedback:  src.Feedback,
			Anonymous: src.Anonymous,
			Ctime:     src.Ctime,
		}
	}), err
}

func (r *ratingRepository) HasRated(ctx context.Context, testID int64, kind domain.ItemKind, itemID, raterID int64) (bool, error) {
	count, err := r.dao.CountByTestItemAndRater(ctx, testID, uint8(kind), itemID, raterID)
	return count > 0, err
}
