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
	"time"

	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

var ErrRecordNotFound = gorm.ErrRecordNotFound

const (
	RatingValueKeep    = 1
	RatingValueNeutral = 2
	RatingValueDelete  = 3
)

type RatingDAO interface {
	Create(ctx context.Context, r Rating) (int64, error)
	// CountByItem 按评分值分组统计, 跨所有测试
	CountByItem(ctx context.Context, kind uint8, itemID int64) (map[uint8]int64, error)
	FindByItem(ctx context.Context, kind uint8, itemID int64, offset, limit int) ([]Rating, error)
	// CountByTestItemAndRater 同一个测试里同一个评分人对同一条目的评分数
	CountByTestItemAndRater(ctx context.Context, testID int64, kind uint8, itemID, raterID int64) (int64, error)
}

type ratingDAO struct {
	db *egorm.Component
}

func NewRatingGORMDAO(db *egorm.Component) RatingDAO {
	return &ratingDAO{db: db}
}

func (g *ratingDAO) Create(ctx context.Context, r Rating) (int64, error) {
	now := time.Now().UnixMilli()
	r.Ctime, r.Utime = now, now
	err := g.db.WithContext(ctx).Create(&r).Error
	return r.Id, err
}

func (g *ratingDAO) CountByItem(ctx context.Context, kind uint8, itemID int64) (map[uint8]int64, error) {
	var rows []struct {
		RatingValue uint8
		Cnt         int64
	}
	err := g.db.WithContext(ctx).Model(&Rating{}).
		Select("rating_value, COUNT(*) AS cnt").
		Where("item_kind = ? AND item_id = ?", kind, itemID).
		Group("rating_value").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	res := make(map[uint8]int64, len(rows))
	for _, row := range rows {
		res[row.RatingValue] = row.Cnt
	}
	return res, nil
}

func (g *ratingDAO) FindByItem(ctx context.Context, kind uint8, itemID int64, offset, limit int) ([]Rating, error) {
	var res []Rating
	err := g.db.WithContext(ctx).
		Where("item_kind = ? AND item_id = ?", kind, itemID).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (g *ratingDAO) CountByTestItemAndRater(ctx context.Context, testID int64, kind uint8, itemID, raterID int64) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&Rating{}).
		Where("test_id = ? AND item_kind = ? AND item_id = ? AND rater_id = ?",
			testID, kind, itemID, raterID).
		Count(&count).Error
	return count, err
}

type Rating struct {
	Id       int64 `gorm:"primaryKey;autoIncrement;comment:评分表自增ID"`
	TestId   int64 `gorm:"not null;index:idx_test_id;comment:测试ID"`
	RaterId  int64 `gorm:"not null;index:idx_rater_id;comment:评分人ID"`
	ItemKind uint8 `gorm:"type:tinyint unsigned;not null;index:idx_item,priority:1;comment:条目类型 1=照片, 2=提示"`
	ItemId   int64 `gorm:"not null;index:idx_item,priority:2;comment:被评条目ID"`
	// RatingValue 1=保留, 2=中立, 3=删除
	RatingValue uint8  `gorm:"type:tinyint unsigned;not null;comment:评分值"`
	Feedback    string `gorm:"type:text;comment:文字反馈"`
	Anonymous   bool   `gorm:"not null;default:true;comment:是否匿名"`
	Ctime       int64
	Utime       int64
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Rating{})
}
