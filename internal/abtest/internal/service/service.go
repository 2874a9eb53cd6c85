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
	"time"

	"github.com/ecodeclub/ekit/retry"
	"github.com/ecodeclub/mirror/internal/abtest/internal/domain"
	"github.com/ecodeclub/mirror/internal/abtest/internal/repository"
	"github.com/ecodeclub/mirror/internal/credit"
	"github.com/ecodeclub/mirror/internal/pkg/sequencenumber"
	"github.com/ecodeclub/mirror/internal/profile"
	"github.com/gotomicro/ego/core/elog"
	"github.com/lithammer/shortuuid/v4"
)

var (
	ErrInsufficientCredits             = errors.New("积分不足")
	ErrProfileNotFound                 = errors.New("资料不存在")
	ErrItemNotFound                    = errors.New("照片或提示不存在")
	ErrInvalidItemType                 = errors.New("条目类型非法")
	ErrTestNotFound                    = errors.New("测试不存在")
	ErrInvalidTestStatus               = repository.ErrInvalidTestStatus
	ErrExceedTheMaximumNumberOfRetries = errors.New("超过最大重试次数")
)

const bizRatingTest = "ratingTest"

type Service interface {
	CreateTest(ctx context.Context, uid int64, typ domain.TestType, kind domain.ItemKind, itemID int64) (domain.Test, error)
	CreateReplacementTest(ctx context.Context, uid int64, kind domain.ItemKind, itemID int64, content domain.ReplacementContent) (domain.Test, error)
	Detail(ctx context.Context, uid int64, sn string) (domain.Test, error)
	// TestWithItems 不校验归属, 供评分方查询测试条目
	TestWithItems(ctx context.Context, sn string) (domain.Test, error)
	List(ctx context.Context, uid int64, offset, limit int) ([]domain.Test, int64, error)
	Complete(ctx context.Context, uid int64, sn string) (domain.Test, error)
}

type service struct {
	repo        repository.TestRepository
	creditSvc   credit.Service
	profileSvc  profile.Service
	snGenerator *sequencenumber.Generator
	logger      *elog.Component

	initialInterval time.Duration
	maxInterval     time.Duration
	maxRetries      int32
}

func NewService(repo repository.TestRepository,
	creditSvc credit.Service,
	profileSvc profile.Service,
	snGenerator *sequencenumber.Generator) Service {
	return &service{
		repo:            repo,
		creditSvc:       creditSvc,
		profileSvc:      profileSvc,
		snGenerator:     snGenerator,
		logger:          elog.DefaultLogger,
		initialInterval: 100 * time.Millisecond,
		maxInterval:     1 * time.Second,
		maxRetries:      3,
	}
}

func (s *service) CreateTest(ctx context.Context, uid int64, typ domain.TestType, kind domain.ItemKind, itemID int64) (domain.Test, error) {
	if !typ.IsValid() {
		return domain.Test{}, fmt.Errorf("%w: %d", ErrInvalidItemType, typ)
	}
	p, err := s.resolveProfile(ctx, uid)
	if err != nil {
		return domain.Test{}, err
	}
	items, err := s.materializeItems(ctx, p.ID, typ, kind, itemID)
	if err != nil {
		return domain.Test{}, err
	}
	return s.createTest(ctx, uid, domain.Test{
		Uid:    uid,
		Type:   typ,
		Status: domain.TestStatusPending,
		Cost:   typ.Cost(),
		Items:  items,
	})
}

func (s *service) CreateReplacementTest(ctx context.Context, uid int64, kind domain.ItemKind, itemID int64, content domain.ReplacementContent) (domain.Test, error) {
	p, err := s.resolveProfile(ctx, uid)
	if err != nil {
		return domain.Test{}, err
	}
	var typ domain.TestType
	switch kind {
	case domain.ItemKindPhoto:
		typ = domain.TestTypeSinglePhoto
		if content.PhotoKey == "" {
			return domain.Test{}, fmt.Errorf("%w: 替换照片缺少对象键", ErrInvalidItemType)
		}
	case domain.ItemKindPrompt:
		typ = domain.TestTypeSinglePrompt
		if content.Question == "" || content.Answer == "" {
			return domain.Test{}, fmt.Errorf("%w: 替换提示缺少问题或回答", ErrInvalidItemType)
		}
	default:
		return domain.Test{}, fmt.Errorf("%w: %d", ErrInvalidItemType, kind)
	}

	// 校验原件归属并创建替换件
	replacementID, err := s.createReplacementItem(ctx, p.ID, kind, itemID, content)
	if err != nil {
		return domain.Test{}, err
	}

	return s.createTest(ctx, uid, domain.Test{
		Uid:         uid,
		Type:        typ,
		Status:      domain.TestStatusPending,
		Cost:        typ.Cost(),
		Replacement: true,
		Items: []domain.TestItem{
			{Kind: kind, ItemID: itemID, OriginalItemID: itemID},
			{Kind: kind, ItemID: replacementID, OriginalItemID: itemID},
		},
	})
}

// createTest 预扣积分, 落库测试, 确认扣减, 任一环节失败都会回滚此前的动作
func (s *service) createTest(ctx context.Context, uid int64, t domain.Test) (domain.Test, error) {
	sn, err := s.snGenerator.Generate(uid)
	if err != nil {
		return domain.Test{}, fmt.Errorf("生成测试序列号失败: %w", err)
	}
	t.SN = sn
	t.StartedAt = time.Now().UnixMilli()

	tid, err := s.creditSvc.TryDeductCredits(ctx, credit.Credit{
		Uid: uid,
		Logs: []credit.CreditLog{
			{
				Key:          shortuuid.New(),
				Uid:          uid,
				ChangeAmount: -t.Cost,
				Biz:          bizRatingTest,
				Desc:         fmt.Sprintf("发起测试 %s", t.Type),
			},
		},
	})
	if errors.Is(err, credit.ErrCreditNotEnough) {
		return domain.Test{}, fmt.Errorf("%w: 费用=%d", ErrInsufficientCredits, t.Cost)
	}
	if err != nil {
		return domain.Test{}, fmt.Errorf("预扣积分失败: %w", err)
	}

	id, err := s.repo.CreateTestWithItems(ctx, t)
	if err != nil {
		if err2 := s.cancelDeductCredits(ctx, uid, tid); err2 != nil {
			s.logger.Error("创建测试失败后取消预扣积分失败",
				elog.FieldErr(err2),
				elog.Int64("uid", uid),
				elog.Int64("tid", tid),
			)
		}
		return domain.Test{}, fmt.Errorf("创建测试失败: %w", err)
	}

	if err = s.confirmDeductCredits(ctx, uid, tid); err != nil {
		if err2 := s.cancelDeductCredits(ctx, uid, tid); err2 != nil {
			s.logger.Error("确认扣减失败后取消预扣积分失败",
				elog.FieldErr(err2),
				elog.Int64("uid", uid),
				elog.Int64("tid", tid),
			)
		}
		if err3 := s.repo.DeleteTest(ctx, id); err3 != nil {
			s.logger.Error("确认扣减失败后清理测试失败",
				elog.FieldErr(err3),
				elog.Int64("测试ID", id),
			)
		}
		return domain.Test{}, fmt.Errorf("确认扣减积分失败: %w", err)
	}

	if err = s.profileSvc.UpdateStatus(ctx, uid, profile.StatusTesting); err != nil {
		// 状态列仅用于展示, 不影响测试本身
		s.logger.Error("更新资料状态失败",
			elog.FieldErr(err),
			elog.Int64("uid", uid),
		)
	}

	t.ID = id
	return t, nil
}

func (s *service) Detail(ctx context.Context, uid int64, sn string) (domain.Test, error) {
	t, err := s.TestWithItems(ctx, sn)
	if err != nil {
		return domain.Test{}, err
	}
	if t.Uid != uid {
		return domain.Test{}, fmt.Errorf("%w: sn=%s", ErrTestNotFound, sn)
	}
	return t, nil
}

func (s *service) TestWithItems(ctx context.Context, sn string) (domain.Test, error) {
	t, err := s.repo.FindWithItemsBySN(ctx, sn)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return domain.Test{}, fmt.Errorf("%w: sn=%s", ErrTestNotFound, sn)
	}
	return t, err
}

func (s *service) List(ctx context.Context, uid int64, offset, limit int) ([]domain.Test, int64, error) {
	return s.repo.FindByUID(ctx, uid, offset, limit)
}

func (s *service) Complete(ctx context.Context, uid int64, sn string) (domain.Test, error) {
	t, err := s.repo.CompleteTest(ctx, uid, sn)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return domain.Test{}, fmt.Errorf("%w: sn=%s", ErrTestNotFound, sn)
	}
	if err != nil {
		return domain.Test{}, err
	}
	if err = s.profileSvc.UpdateStatus(ctx, uid, profile.StatusComplete); err != nil {
		s.logger.Error("更新资料状态失败",
			elog.FieldErr(err),
			elog.Int64("uid", uid),
		)
	}
	return t, nil
}

func (s *service) resolveProfile(ctx context.Context, uid int64) (profile.Profile, error) {
	p, err := s.profileSvc.ProfileByUID(ctx, uid)
	if errors.Is(err, profile.ErrProfileNotFound) {
		return profile.Profile{}, fmt.Errorf("%w: uid=%d", ErrProfileNotFound, uid)
	}
	return p, err
}

func (s *service) materializeItems(ctx context.Context, profileID int64, typ domain.TestType, kind domain.ItemKind, itemID int64) ([]domain.TestItem, error) {
	switch typ {
	case domain.TestTypeFullProfile:
		return s.fullProfileItems(ctx, profileID)
	case domain.TestTypeSinglePhoto:
		if kind != domain.ItemKindPhoto {
			return nil, fmt.Errorf("%w: 单照片测试的条目类型是 %s", ErrInvalidItemType, kind)
		}
		if _, err := s.profileSvc.Photo(ctx, profileID, itemID); err != nil {
			return nil, s.mapItemErr(err)
		}
		return []domain.TestItem{{Kind: kind, ItemID: itemID, OriginalItemID: itemID}}, nil
	case domain.TestTypeSinglePrompt:
		if kind != domain.ItemKindPrompt {
			return nil, fmt.Errorf("%w: 单提示测试的条目类型是 %s", ErrInvalidItemType, kind)
		}
		if _, err := s.profileSvc.Prompt(ctx, profileID, itemID); err != nil {
			return nil, s.mapItemErr(err)
		}
		return []domain.TestItem{{Kind: kind, ItemID: itemID, OriginalItemID: itemID}}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidItemType, typ)
	}
}

func (s *service) fullProfileItems(ctx context.Context, profileID int64) ([]domain.TestItem, error) {
	photos, err := s.profileSvc.Photos(ctx, profileID)
	if err != nil {
		return nil, err
	}
	prompts, err := s.profileSvc.Prompts(ctx, profileID)
	if err != nil {
		return nil, err
	}
	items := make([]domain.TestItem, 0, len(photos)+len(prompts))
	for _, p := range photos {
		items = append(items, domain.TestItem{
			Kind:           domain.ItemKindPhoto,
			ItemID:         p.ID,
			OriginalItemID: p.ID,
		})
	}
	for _, p := range prompts {
		items = append(items, domain.TestItem{
			Kind:           domain.ItemKindPrompt,
			ItemID:         p.ID,
			OriginalItemID: p.ID,
		})
	}
	// 空资料没有可测的条目, 不能走到扣积分那一步
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: 资料里没有照片和提示", ErrItemNotFound)
	}
	return items, nil
}

func (s *service) createReplacementItem(ctx context.Context, profileID int64, kind domain.ItemKind, itemID int64, content domain.ReplacementContent) (int64, error) {
	switch kind {
	case domain.ItemKindPhoto:
		original, err := s.profileSvc.Photo(ctx, profileID, itemID)
		if err != nil {
			return 0, s.mapItemErr(err)
		}
		created, err := s.profileSvc.CreatePhoto(ctx, profile.Photo{
			ProfileID: profileID,
			Key:       content.PhotoKey,
			Position:  original.Position,
		})
		if err != nil {
			return 0, fmt.Errorf("创建替换照片失败: %w", err)
		}
		return created.ID, nil
	case domain.ItemKindPrompt:
		if _, err := s.profileSvc.Prompt(ctx, profileID, itemID); err != nil {
			return 0, s.mapItemErr(err)
		}
		created, err := s.profileSvc.CreatePrompt(ctx, profile.Prompt{
			ProfileID: profileID,
			Question:  content.Question,
			Answer:    content.Answer,
		})
		if err != nil {
			return 0, fmt.Errorf("创建替换提示失败: %w", err)
		}
		return created.ID, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidItemType, kind)
	}
}

func (s *service) mapItemErr(err error) error {
	if errors.Is(err, profile.ErrItemNotFound) {
		return fmt.Errorf("%w", ErrItemNotFound)
	}
	return err
}

func (s *service) confirmDeductCredits(ctx context.Context, uid, tid int64) error {
	strategy, _ := retry.NewExponentialBackoffRetryStrategy(s.initialInterval, s.maxInterval, s.maxRetries)
	for {
		err := s.creditSvc.ConfirmDeductCredits(ctx, uid, tid)
		if err == nil {
			return nil
		}
		next, ok := strategy.Next()
		if !ok {
			return fmt.Errorf("确认扣减预扣积分失败: %w", ErrExceedTheMaximumNumberOfRetries)
		}
		time.Sleep(next)
	}
}

func (s *service) cancelDeductCredits(ctx context.Context, uid, tid int64) error {
	strategy, _ := retry.NewExponentialBackoffRetryStrategy(s.initialInterval, s.maxInterval, s.maxRetries)
	for {
		err := s.creditSvc.CancelDeductCredits(ctx, uid, tid)
		if err == nil {
			return nil
		}
		next, ok := strategy.Next()
		if !ok {
			return fmt.Errorf("取消预扣积分失败: %w", ErrExceedTheMaximumNumberOfRetries)
		}
		time.Sleep(next)
	}
}
