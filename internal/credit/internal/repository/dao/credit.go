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

package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ego-component/egorm"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrCreditNotEnough           = errors.New("积分不足")
	ErrDuplicatedCreditLog       = errors.New("积分流水记录重复")
	ErrRecordChangedConcurrently = errors.New("记录已被并发修改")
	ErrRecordNotFound            = gorm.ErrRecordNotFound
)

type CreditDAO interface {
	FindCreditByUID(ctx context.Context, uid int64) (Credit, error)
	FindCreditLogsByUID(ctx context.Context, uid int64, offset, limit int) ([]CreditLog, error)
	Upsert(ctx context.Context, l CreditLog) error
	CreateCreditLockLog(ctx context.Context, l CreditLog) (int64, error)
	ConfirmCreditLockLog(ctx context.Context, uid, tid int64) error
	CancelCreditLockLog(ctx context.Context, uid, tid int64) error
	FindExpiredLockedCreditLogs(ctx context.Context, offset, limit int, ctime int64) ([]CreditLog, error)
	TotalExpiredLockedCreditLogs(ctx context.Context, ctime int64) (int64, error)
}

type creditDAO struct {
	db *egorm.Component
}

func NewCreditGORMDAO(db *egorm.Component) CreditDAO {
	return &creditDAO{db: db}
}

func (g *creditDAO) FindCreditByUID(ctx context.Context, uid int64) (Credit, error) {
	var res Credit
	err := g.db.WithContext(ctx).First(&res, "uid = ?", uid).Error
	return res, err
}

func (g *creditDAO) FindCreditLogsByUID(ctx context.Context, uid int64, offset, limit int) ([]CreditLog, error) {
	var res []CreditLog
	err := g.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

// Upsert 为用户增加积分并记录一条已生效流水, Key 相同的流水只会入账一次
func (g *creditDAO) Upsert(ctx context.Context, l CreditLog) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UnixMilli()
		var c Credit
		res := tx.Where(Credit{Uid: l.Uid}).
			Attrs(Credit{TotalCredits: l.CreditChange, Ctime: now, Utime: now}).
			FirstOrCreate(&c)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 已有积分主记录, 乐观锁更新可用积分
			version := c.Version
			c.TotalCredits += l.CreditChange
			updated := tx.Model(&Credit{}).
				Where("uid = ? AND version = ?", l.Uid, version).
				Updates(map[string]any{
					"total_credits": c.TotalCredits,
					"version":       version + 1,
					"utime":         now,
				})
			if updated.Error != nil {
				return fmt.Errorf("更新积分失败: %w", updated.Error)
			}
			if updated.RowsAffected == 0 {
				return fmt.Errorf("更新积分失败: %w", ErrRecordChangedConcurrently)
			}
		}
		l.Cid = c.Id
		l.CreditBalance = c.TotalCredits - c.LockedTotalCredits
		l.Status = CreditLogStatusActive
		l.Ctime, l.Utime = now, now
		if err := tx.Create(&l).Error; err != nil {
			var me *mysql.MySQLError
			if errors.As(err, &me) {
				const uniqueIndexErrNo uint16 = 1062
				if me.Number == uniqueIndexErrNo {
					return fmt.Errorf("创建积分流水记录失败: %w", ErrDuplicatedCreditLog)
				}
			}
			return fmt.Errorf("创建积分流水记录失败: %w", err)
		}
		return nil
	})
}

// CreateCreditLockLog 预扣积分, 锁定数量并记录一条预扣中流水
func (g *creditDAO) CreateCreditLockLog(ctx context.Context, l CreditLog) (int64, error) {
	var id int64
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c Credit
		if err := tx.First(&c, "uid = ?", l.Uid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w", ErrCreditNotEnough)
			}
			return err
		}
		amount := -l.CreditChange
		available := c.TotalCredits - c.LockedTotalCredits
		if available < amount {
			return fmt.Errorf("%w", ErrCreditNotEnough)
		}
		now := time.Now().UnixMilli()
		updated := tx.Model(&Credit{}).
			Where("uid = ? AND version = ?", l.Uid, c.Version).
			Updates(map[string]any{
				"locked_total_credits": c.LockedTotalCredits + amount,
				"version":              c.Version + 1,
				"utime":                now,
			})
		if updated.Error != nil {
			return fmt.Errorf("锁定积分失败: %w", updated.Error)
		}
		if updated.RowsAffected == 0 {
			return fmt.Errorf("锁定积分失败: %w", ErrRecordChangedConcurrently)
		}
		l.Cid = c.Id
		l.CreditBalance = available - amount
		l.Status = CreditLogStatusLocked
		l.Ctime, l.Utime = now, now
		if err := tx.Create(&l).Error; err != nil {
			return fmt.Errorf("创建预扣流水记录失败: %w", err)
		}
		id = l.Id
		return nil
	})
	return id, err
}

// ConfirmCreditLockLog 确认预扣, 真实扣减积分并将流水置为已生效
func (g *creditDAO) ConfirmCreditLockLog(ctx context.Context, uid, tid int64) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		l, c, err := g.findLockedLog(tx, uid, tid)
		if err != nil {
			return err
		}
		amount := -l.CreditChange
		now := time.Now().UnixMilli()
		updated := tx.Model(&Credit{}).
			Where("uid = ? AND version = ?", uid, c.Version).
			Updates(map[string]any{
				"total_credits":        c.TotalCredits - amount,
				"locked_total_credits": c.LockedTotalCredits - amount,
				"version":              c.Version + 1,
				"utime":                now,
			})
		if updated.Error != nil {
			return fmt.Errorf("扣减积分失败: %w", updated.Error)
		}
		if updated.RowsAffected == 0 {
			return fmt.Errorf("扣减积分失败: %w", ErrRecordChangedConcurrently)
		}
		return tx.Model(&CreditLog{}).
			Where("id = ?", tid).
			Updates(map[string]any{
				"status":         CreditLogStatusActive,
				"credit_balance": (c.TotalCredits - amount) - (c.LockedTotalCredits - amount),
				"utime":          now,
			}).Error
	})
}

// CancelCreditLockLog 取消预扣, 释放锁定数量并将流水置为已失效
func (g *creditDAO) CancelCreditLockLog(ctx context.Context, uid, tid int64) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		l, c, err := g.findLockedLog(tx, uid, tid)
		if err != nil {
			return err
		}
		amount := -l.CreditChange
		now := time.Now().UnixMilli()
		updated := tx.Model(&Credit{}).
			Where("uid = ? AND version = ?", uid, c.Version).
			Updates(map[string]any{
				"locked_total_credits": c.LockedTotalCredits - amount,
				"version":              c.Version + 1,
				"utime":                now,
			})
		if updated.Error != nil {
			return fmt.Errorf("释放积分失败: %w", updated.Error)
		}
		if updated.RowsAffected == 0 {
			return fmt.Errorf("释放积分失败: %w", ErrRecordChangedConcurrently)
		}
		return tx.Model(&CreditLog{}).
			Where("id = ?", tid).
			Updates(map[string]any{
				"status":         CreditLogStatusInactive,
				"credit_balance": c.TotalCredits - (c.LockedTotalCredits - amount),
				"utime":          now,
			}).Error
	})
}

func (g *creditDAO) findLockedLog(tx *gorm.DB, uid, tid int64) (CreditLog, Credit, error) {
	var l CreditLog
	err := tx.First(&l, "id = ? AND uid = ? AND status = ?", tid, uid, CreditLogStatusLocked).Error
	if err != nil {
		return CreditLog{}, Credit{}, err
	}
	var c Credit
	if err := tx.First(&c, "uid = ?", uid).Error; err != nil {
		return CreditLog{}, Credit{}, err
	}
	return l, c, nil
}

func (g *creditDAO) FindExpiredLockedCreditLogs(ctx context.Context, offset, limit int, ctime int64) ([]CreditLog, error) {
	var res []CreditLog
	err := g.db.WithContext(ctx).
		Where("status = ? AND ctime < ?", CreditLogStatusLocked, ctime).
		Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (g *creditDAO) TotalExpiredLockedCreditLogs(ctx context.Context, ctime int64) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&CreditLog{}).
		Where("status = ? AND ctime < ?", CreditLogStatusLocked, ctime).
		Count(&count).Error
	return count, err
}

const (
	CreditLogStatusActive   = 1
	CreditLogStatusLocked   = 2
	CreditLogStatusInactive = 3
)

type Credit struct {
	Id                 int64 `gorm:"primaryKey;autoIncrement;comment:积分主表自增ID"`
	Uid                int64 `gorm:"not null;uniqueIndex:unq_user_id;comment:用户ID"`
	TotalCredits       int64 `gorm:"not null;default:0;comment:可用的积分总数"`
	LockedTotalCredits int64 `gorm:"not null;default:0;comment:锁定的积分总数"`
	Version            int64 `gorm:"not null;default:1;comment:版本号"`
	Ctime              int64
	Utime              int64
}

type CreditLog struct {
	Id            int64  `gorm:"primaryKey;autoIncrement;comment:积分流水表自增ID"`
	Key           string `gorm:"type:varchar(256);not null;uniqueIndex:unq_key;comment:去重键"`
	Cid           int64  `gorm:"not null;index:idx_credit_id;comment:积分主记录ID"`
	Uid           int64  `gorm:"not null;index:idx_user_id;comment:用户ID"`
	Biz           string `gorm:"type:varchar(256);not null;comment:业务名称"`
	BizId         int64  `gorm:"not null;index:idx_biz_id;comment:业务ID"`
	Desc          string `gorm:"type:varchar(255);not null;comment:积分流水描述"`
	CreditChange  int64  `gorm:"not null;comment:积分变动数量,正数为增加,负数为减少"`
	CreditBalance int64  `gorm:"not null;comment:变动后可用的积分总数"`
	Status        int64  `gorm:"type:tinyint unsigned;not null;default:1;index:idx_status;comment:流水状态 1=已生效, 2=预扣中, 3=已失效"`
	Ctime         int64
	Utime         int64
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Credit{}, &CreditLog{})
}
