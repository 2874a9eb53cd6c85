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
	"github.com/ecodeclub/mirror/internal/abtest/internal/domain"
	"github.com/ecodeclub/mirror/internal/abtest/internal/repository/dao"
)

var (
	ErrRecordNotFound    = dao.ErrRecordNotFound
	ErrInvalidTestStatus = dao.ErrInvalidTestStatus
)

type TestRepository interface {
	CreateTestWithItems(ctx context.Context, t domain.Test) (int64, error)
	FindBySN(ctx context.Context, sn string) (domain.Test, error)
	FindWithItemsBySN(ctx context.Context, sn string) (domain.Test, error)
	FindByUID(ctx context.Context, uid int64, offset, limit int) ([]domain.Test, int64, error)
	CompleteTest(ctx context.Context, uid int64, sn string) (domain.Test, error)
	DeleteTest(ctx context.Context, tid int64) error
}

type testRepository struct {
	dao dao.TestDAO
}

func NewTestRepository(dao dao.TestDAO) TestRepository {
	return &testRepository{dao: dao}
}

func (r *testRepository) CreateTestWithItems(ctx context.Context, t domain.Test) (int64, error) {
	entity := dao.Test{
		SN:          t.SN,
		Uid:         t.Uid,
		TestType:    uint8(t.Type),
		Status:      uint8(t.Status),
		Cost:        t.Cost,
		Replacement: t.Replacement,
		StartedAt:   t.StartedAt,
	}
	items := slice.Map(t.Items, func(idx int, src domain.TestItem) dao.TestItem {
		return dao.TestItem{
			ItemKind:       uint8(src.Kind),
			ItemId:         src.ItemID,
			OriginalItemId: src.OriginalItemID,
		}
	})
	return r.dao.CreateTestWithItems(ctx, entity, items)
}

func (r *testRepository) FindBySN(ctx context.Context, sn string) (domain.Test, error) {
	t, err := r.dao.FindBySN(ctx, sn)
	if err != nil {
		return domain.Test{}, err
	}
	return r.toDomain(t, nil), nil
}

func (r *testRepository) FindWithItemsBySN(ctx context.Context, sn string) (domain.Test, error) {
	t, err := r.dao.FindBySN(ctx, sn)
	if err != nil {
		return domain.Test{}, err
	}
	items, err := r.dao.FindItemsByTestID(ctx, t.Id)
	if err != nil {
		return domain.Test{}, err
	}
	return r.toDomain(t, items), nil
}

func (r *testRepository) FindByUID(ctx context.Context, uid int64, offset, limit int) ([]domain.Test, int64, error) {
	tests, err := r.dao.FindByUID(ctx, uid, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.dao.CountByUID(ctx, uid)
	if err != nil {
		return nil, 0, err
	}
	return slice.Map(tests, func(idx int, src dao.Test) domain.Test {
		return r.toDomain(src, nil)
	}), total, nil
}

func (r *testRepository) CompleteTest(ctx context.Context, uid int64, sn string) (domain.Test, error) {
	t, err := r.dao.CompleteTest(ctx, uid, sn)
	if err != nil {
		return domain.Test{}, err
	}
	return r.toDomain(t, nil), nil
}

func (r *testRepository) DeleteTest(ctx context.Context, tid int64) error {
	return r.dao.DeleteTest(ctx, tid)
}

func (r *testRepository) toDomain(t dao.Test, items []dao.TestItem) domain.Test {
	return domain.Test{
		ID:          t.Id,
		SN:          t.SN,
		Uid:         t.Uid,
		Type:        domain.TestType(t.TestType),
		Status:      domain.TestStatus(t.Status),
		Cost:        t.Cost,
		Replacement: t.Replacement,
		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,
		Items: slice.Map(items, func(idx int, src dao.TestItem) domain.TestItem {
			return domain.TestItem{
				ID:             src.Id,
				TestID:         src.TestId,
				Kind:           domain.ItemKind(src.ItemKind),
				ItemID:         src.ItemId,
				OriginalItemID: src.OriginalItemId,
			}
		}),
		Ctime: t.Ctime,
		Utime: t.Utime,
	}
}
