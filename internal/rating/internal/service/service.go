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

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecodeclub/mirror/internal/abtest"
	"github.com/ecodeclub/mirror/internal/profile"
	"github.com/ecodeclub/mirror/internal/rating/internal/domain"
	"github.com/ecodeclub/mirror/internal/rating/internal/event"
	"github.com/ecodeclub/mirror/internal/rating/internal/repository"
	"github.com/ecodeclub/mirror/internal/rating/internal/repository/cache"
	"github.com/gotomicro/ego/core/elog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrTestNotFound       = errors.New("测试不存在")
	ErrItemNotInTest      = errors.New("条目不属于该测试")
	ErrInvalidRatingValue = errors.New("评分值非法")
	ErrCannotRateOwnTest  = errors.New("不能评价自己的测试")
	ErrAlreadyRated       = errors.New("已经评过这个条目")
	ErrItemNotFound       = errors.New("照片或提示不存在")
	ErrProfileNotFound    = errors.New("资料不存在")
)

// rewardAmount 每完成一次评分给评分人的积分奖励
const rewardAmount = int64(1)

type Service interface {
	// Submit 提交评分, 返回落库后的评分
	Submit(ctx context.Context, testSN string, r domain.Rating) (domain.Rating, error)
	ItemAggregate(ctx context.Context, kind domain.ItemKind, itemID int64) (domain.ItemAggregate, error)
	ProfileSummary(ctx context.Context, uid int64) (domain.ProfileSummary, error)
	ItemDetail(ctx context.Context, uid int64, kind domain.ItemKind, itemID int64, offset, limit int) (domain.ItemAggregate, []domain.Rating, error)
}

type service struct {
	repo       repository.RatingRepository
	aggrCache  *cache.ItemAggregateCache
	abtestSvc  abtest.Service
	profileSvc profile.Service
	producer   event.CreditEventProducer
	logger     *elog.Component
}

func NewService(repo repository.RatingRepository,
	aggrCache *cache.ItemAggregateCache,
	abtestSvc abtest.Service,
	profileSvc profile.Service,
	producer event.CreditEventProducer) Service {
	return &service{
		repo:       repo,
		aggrCache:  aggrCache,
		abtestSvc:  abtestSvc,
		profileSvc: profileSvc,
		producer:   producer,
		logger:     elog.DefaultLogger,
	}
}

func (s *service) Submit(ctx context.Context, testSN string, r domain.Rating) (domain.Rating, error) {
	if !r.Value.IsValid() {
		return domain.Rating{}, fmt.Errorf("%w: %d", ErrInvalidRatingValue, r.Value)
	}
	t, err := s.abtestSvc.TestWithItems(ctx, testSN)
	if errors.Is(err, abtest.ErrTestNotFound) {
		return domain.Rating{}, fmt.Errorf("%w: sn=%s", ErrTestNotFound, testSN)
	}
	if err != nil {
		return domain.Rating{}, err
	}
	if t.Uid == r.RaterID {
		return domain.Rating{}, fmt.Errorf("%w", ErrCannotRateOwnTest)
	}
	if !t.ContainsItem(abtest.ItemKind(r.ItemKind), r.ItemID) {
		return domain.Rating{}, fmt.Errorf("%w: kind=%s, id=%d", ErrItemNotInTest, r.ItemKind, r.ItemID)
	}
	// 同一个测试里每个条目只能评一次, 换个条目不受影响
	rated, err := s.repo.HasRated(ctx, t.ID, r.ItemKind, r.ItemID, r.RaterID)
	if err != nil {
		return domain.Rating{}, err
	}
	if rated {
		return domain.Rating{}, fmt.Errorf("%w: kind=%s, id=%d", ErrAlreadyRated, r.ItemKind, r.ItemID)
	}

	r.TestID = t.ID
	id, err := s.repo.Create(ctx, r)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("保存评分失败: %w", err)
	}
	r.ID = id

	// 汇总缓存立即失效, 下次读取重新统计
	if err = s.aggrCache.Delete(ctx, r.ItemKind, r.ItemID); err != nil {
		s.logger.Warn("清理条目汇总缓存失败",
			elog.FieldErr(err),
			elog.Int64("itemID", r.ItemID),
		)
	}

	evt := event.CreditIncreaseEvent{
		Key:    fmt.Sprintf("rating-reward-%d", id),
		Uid:    r.RaterID,
		Amount: rewardAmount,
		Biz:    "rating",
		BizId:  id,
		Action: "参与评分",
	}
	if err = s.producer.Produce(ctx, evt); err != nil {
		// 奖励丢失不影响评分本身
		s.logger.Error("发送评分奖励事件失败",
			elog.FieldErr(err),
			elog.Any("event", evt),
		)
	}
	return r, nil
}

func (s *service) ItemAggregate(ctx context.Context, kind domain.ItemKind, itemID int64) (domain.ItemAggregate, error) {
	aggr, err := s.aggrCache.Get(ctx, kind, itemID)
	if err == nil && aggr.ItemID == itemID {
		return aggr, nil
	}
	aggr, err = s.repo.AggregateByItem(ctx, kind, itemID)
	if err != nil {
		return domain.ItemAggregate{}, err
	}
	if err2 := s.aggrCache.Set(ctx, aggr); err2 != nil {
		s.logger.Warn("写入条目汇总缓存失败", elog.FieldErr(err2))
	}
	return aggr, nil
}

func (s *service) ProfileSummary(ctx context.Context, uid int64) (domain.ProfileSummary, error) {
	p, err := s.profileSvc.ProfileByUID(ctx, uid)
	if errors.Is(err, profile.ErrProfileNotFound) {
		return domain.ProfileSummary{}, fmt.Errorf("%w: uid=%d", ErrProfileNotFound, uid)
	}
	if err != nil {
		return domain.ProfileSummary{}, err
	}
	photos, err := s.profileSvc.Photos(ctx, p.ID)
	if err != nil {
		return domain.ProfileSummary{}, err
	}
	prompts, err := s.profileSvc.Prompts(ctx, p.ID)
	if err != nil {
		return domain.ProfileSummary{}, err
	}

	photoAggrs := make([]domain.ItemAggregate, len(photos))
	promptAggrs := make([]domain.ItemAggregate, len(prompts))
	var eg errgroup.Group
	for i := range photos {
		i := i
		eg.Go(func() error {
			aggr, err := s.ItemAggregate(ctx, domain.ItemKindPhoto, photos[i].ID)
			photoAggrs[i] = aggr
			return err
		})
	}
	for i := range prompts {
		i := i
		eg.Go(func() error {
			aggr, err := s.ItemAggregate(ctx, domain.ItemKindPrompt, prompts[i].ID)
			promptAggrs[i] = aggr
			return err
		})
	}
	if err = eg.Wait(); err != nil {
		return domain.ProfileSummary{}, err
	}

	var total domain.ItemAggregate
	for _, aggr := range append(append([]domain.ItemAggregate{}, photoAggrs...), promptAggrs...) {
		total.Keep += aggr.Keep
		total.Neutral += aggr.Neutral
		total.Remove += aggr.Remove
		total.Total += aggr.Total
		total.Score += aggr.Score
	}
	return domain.ProfileSummary{
		Photos:  photoAggrs,
		Prompts: promptAggrs,
		Total:   total,
	}, nil
}

func (s *service) ItemDetail(ctx context.Context, uid int64, kind domain.ItemKind, itemID int64, offset, limit int) (domain.ItemAggregate, []domain.Rating, error) {
	p, err := s.profileSvc.ProfileByUID(ctx, uid)
	if errors.Is(err, profile.ErrProfileNotFound) {
		return domain.ItemAggregate{}, nil, fmt.Errorf("%w: uid=%d", ErrProfileNotFound, uid)
	}
	if err != nil {
		return domain.ItemAggregate{}, nil, err
	}
	// 只能看自己条目的反馈
	if err = s.checkOwnership(ctx, p.ID, kind, itemID); err != nil {
		return domain.ItemAggregate{}, nil, err
	}

	aggr, err := s.ItemAggregate(ctx, kind, itemID)
	if err != nil {
		return domain.ItemAggregate{}, nil, err
	}
	ratings, err := s.repo.ListByItem(ctx, kind, itemID, offset, limit)
	if err != nil {
		return domain.ItemAggregate{}, nil, err
	}
	for i := range ratings {
		if ratings[i].Anonymous {
			ratings[i].RaterID = 0
		}
	}
	return aggr, ratings, nil
}

func (s *service) checkOwnership(ctx context.Context, profileID int64, kind domain.ItemKind, itemID int64) error {
	var err error
	switch kind {
	case domain.ItemKindPhoto:
		_, err = s.profileSvc.Photo(ctx, profileID, itemID)
	case domain.ItemKindPrompt:
		_, err = s.profileSvc.Prompt(ctx, profileID, itemID)
	default:
		return fmt.Errorf("%w: %d", ErrItemNotFound, kind)
	}
	if errors.Is(err, profile.ErrItemNotFound) {
		return fmt.Errorf("%w: id=%d", ErrItemNotFound, itemID)
	}
	return err
}
