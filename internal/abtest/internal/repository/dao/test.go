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
	"time"

	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

var (
	ErrRecordNotFound = gorm.ErrRecordNotFound
	// ErrInvalidTestStatus 目标测试已处于终态
	ErrInvalidTestStatus = errors.New("测试状态非法")
)

const (
	TestStatusPending  = 1
	TestStatusComplete = 3
)

type TestDAO interface {
	CreateTestWithItems(ctx context.Context, t Test, items []TestItem) (int64, error)
	FindBySN(ctx context.Context, sn string) (Test, error)
	FindByUID(ctx context.Context, uid int64, offset, limit int) ([]Test, error)
	CountByUID(ctx context.Context, uid int64) (int64, error)
	FindItemsByTestID(ctx context.Context, tid int64) ([]TestItem, error)
	CompleteTest(ctx context.Context, uid int64, sn string) (Test, error)
	DeleteTest(ctx context.Context, tid int64) error
}

type testDAO struct {
	db *egorm.Component
}

func NewTestGORMDAO(db *egorm.Component) TestDAO {
	return &testDAO{db: db}
}

// CreateTestWithItems 测试主记录与全部条目在同一事务内落库
func (g *testDAO) CreateTestWithItems(ctx context.Context, t Test, items []TestItem) (int64, error) {
	var id int64
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UnixMilli()
		t.Ctime, t.Utime = now, now
		if t.StartedAt == 0 {
			t.StartedAt = now
		}
		if err := tx.Create(&t).Error; err != nil {
			return err
		}
		id = t.Id
		for i := range items {
			items[i].TestId = id
			items[i].Ctime = now
			items[i].Utime = now
		}
		return tx.Create(&items).Error
	})
	return id, err
}

func (g *testDAO) FindBySN(ctx context.Context, sn string) (Test, error) {
	var res Test
	err := g.db.WithContext(ctx).First(&res, "sn = ?", sn).Error
	return res, err
}

func (g *testDAO) FindByUID(ctx context.Context, uid int64, offset, limit int) ([]Test, error) {
	var res []Test
	err := g.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (g *testDAO) CountByUID(ctx context.Context, uid int64) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&Test{}).Where("uid = ?", uid).Count(&count).Error
	return count, err
}

func (g *testDAO) FindItemsByTestID(ctx context.Context, tid int64) ([]TestItem, error) {
	var res []TestItem
	err := g.db.WithContext(ctx).
		Where("test_id = ?", tid).
		Order("id ASC").
		Find(&res).Error
	return res, err
}

// CompleteTest 将测试置为已完成, 重复完成返回 ErrInvalidTestStatus
func (g *testDAO) CompleteTest(ctx context.Context, uid int64, sn string) (Test, error) {
	var t Test
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, "sn = ? AND uid = ?", sn, uid).Error; err != nil {
			return err
		}
		now := time.Now().UnixMilli()
		res := tx.Model(&Test{}).
			Where("id = ? AND status <> ?", t.Id, TestStatusComplete).
			Updates(map[string]any{
				"status":       TestStatusComplete,
				"completed_at": now,
				"utime":        now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTestStatus
		}
		t.Status = TestStatusComplete
		t.CompletedAt = now
		t.Utime = now
		return nil
	})
	return t, err
}

// DeleteTest 回滚创建流程时清理测试及其条目
func (g *testDAO) DeleteTest(ctx context.Context, tid int64) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&TestItem{}, "test_id = ?", tid).Error; err != nil {
			return err
		}
		return tx.Delete(&Test{}, "id = ?", tid).Error
	})
}

type Test struct {
	Id          int64  `gorm:"primaryKey;autoIncrement;comment:测试表自增ID"`
	SN          string `gorm:"type:varchar(64);not null;uniqueIndex:unq_test_sn;comment:测试序列号"`
	Uid         int64  `gorm:"not null;index:idx_user_id;comment:发起人ID"`
	TestType    uint8  `gorm:"type:tinyint unsigned;not null;comment:测试类型 1=整份资料, 2=单张照片, 3=单条提示"`
	Status      uint8  `gorm:"type:tinyint unsigned;not null;default:1;comment:测试状态 1=进行中, 3=已完成"`
	Cost        int64  `gorm:"not null;comment:消耗的积分数"`
	Replacement bool   `gorm:"not null;default:false;comment:是否为替换测试"`
	StartedAt   int64  `gorm:"not null;comment:开始时间"`
	CompletedAt int64  `gorm:"not null;default:0;comment:完成时间, 0表示未完成"`
	Ctime       int64
	Utime       int64
}

type TestItem struct {
	Id       int64 `gorm:"primaryKey;autoIncrement;comment:测试条目表自增ID"`
	TestId   int64 `gorm:"not null;index:idx_test_id;comment:测试ID"`
	ItemKind uint8 `gorm:"type:tinyint unsigned;not null;index:idx_item,priority:1;comment:条目类型 1=照片, 2=提示"`
	ItemId   int64 `gorm:"not null;index:idx_item,priority:2;comment:被测条目ID"`
	// OriginalItemId 替换测试里原件和替换件共享原件ID
	OriginalItemId int64 `gorm:"not null;comment:原件ID"`
	Ctime          int64
	Utime          int64
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Test{}, &TestItem{})
}
