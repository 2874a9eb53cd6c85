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
	"github.com/ecodeclub/mirror/internal/credit/internal/domain"
	"github.com/ecodeclub/mirror/internal/credit/internal/repository/dao"
)

var (
	ErrCreditNotEnough     = dao.ErrCreditNotEnough
	ErrDuplicatedCreditLog = dao.ErrDuplicatedCreditLog
	ErrRecordNotFound      = dao.ErrRecordNotFound
)

type CreditRepository interface {
	AddCredits(ctx context.Context, credit domain.Credit) error
	GetCreditByUID(ctx context.Context, uid int64) (domain.Credit, error)
	ListCreditLogsByUID(ctx context.Context, uid int64, offset, limit int) ([]domain.CreditLog, error)
	TryDeductCredits(ctx context.Context, credit domain.Credit) (int64, error)
	ConfirmDeductCredits(ctx context.Context, uid, tid int64) error
	CancelDeductCredits(ctx context.Context, uid, tid int64) error
	FindExpiredLockedCreditLogs(ctx context.Context, offset, limit int, ctime int64) ([]domain.CreditLog, error)
	TotalExpiredLockedCreditLogs(ctx context.Context, ctime int64) (int64, error)
}

type creditRepository struct {
	dao dao.CreditDAO
}

func NewCreditRepository(dao dao.CreditDAO) CreditRepository {
	return &creditRepository{dao: dao}
}

func (r *creditRepository) AddCredits(ctx context.Context, credit domain.Credit) error {
	cl := r.toEntityCreditLogs(credit)
	return r.dao.Upsert(ctx, cl[0])
}

func (r *creditRepository) GetCreditByUID(ctx context.Context, uid int64) (domain.Credit, error) {
	c, err := r.dao.FindCreditByUID(ctx, uid)
	if err != nil {
		return domain.Credit{}, err
	}
	return domain.Credit{
		Uid:               c.Uid,
		TotalAmount:       c.TotalCredits,
		LockedTotalAmount: c.LockedTotalCredits,
	}, nil
}

func (r *creditRepository) ListCreditLogsByUID(ctx context.Context, uid int64, offset, limit int) ([]domain.CreditLog, error) {
	logs, err := r.dao.FindCreditLogsByUID(ctx, uid, offset, limit)
	return r.toDomainCreditLogs(logs), err
}

func (r *creditRepository) TryDeductCredits(ctx context.Context, credit domain.Credit) (int64, error) {
	cl := r.toEntityCreditLogs(credit)
	return r.dao.CreateCreditLockLog(ctx, cl[0])
}

func (r *creditRepository) ConfirmDeductCredits(ctx context.Context, uid, tid int64) error {
	return r.dao.ConfirmCreditLockLog(ctx, uid, tid)
}

func (r *creditRepository) CancelDeductCredits(ctx context.Context, uid, tid int64) error {
	return r.dao.CancelCreditLockLog(ctx, uid, tid)
}

func (r *creditRepository) FindExpiredLockedCreditLogs(ctx context.Context, offset, limit int, ctime int64) ([]domain.CreditLog, error) {
	logs, err := r.dao.FindExpiredLockedCreditLogs(ctx, offset, limit, ctime)
	return r.toDomainCreditLogs(logs), err
}

func (r *creditRepository) TotalExpiredLockedCreditLogs(ctx context.Context, ctime int64) (int64, error) {
	return r.dao.TotalExpiredLockedCreditLogs(ctx, ctime)
}

func (r *creditRepository) toEntityCreditLogs(c domain.Credit) []dao.CreditLog {
	return slice.Map(c.Logs, func(idx int, src domain.CreditLog) dao.CreditLog {
		return dao.CreditLog{
			Key:          src.Key,
			Uid:          c.Uid,
			Biz:          src.Biz,
			BizId:        src.BizId,
			Desc:         src.Desc,
			CreditChange: src.ChangeAmount,
		}
	})
}

func (r *creditRepository) toDomainCreditLogs(logs []dao.CreditLog) []domain.CreditLog {
	return slice.Map(logs, func(idx int, src dao.CreditLog) domain.CreditLog {
		return domain.CreditLog{
			ID:           src.Id,
			Key:          src.Key,
			Uid:          src.Uid,
			ChangeAmount: src.CreditChange,
			Balance:      src.CreditBalance,
			Biz:          src.Biz,
			BizId:        src.BizId,
			Desc:         src.Desc,
			Status:       domain.CreditLogStatus(src.Status),
			Ctime:        src.Ctime,
		}
	})
}
