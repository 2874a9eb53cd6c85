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
	"gorm.io/gorm/clause"
)

var (
	ErrRecordNotFound = gorm.ErrRecordNotFound
)

type ProfileDAO interface {
	Upsert(ctx context.Context, p Profile) (int64, error)
	FindByUID(ctx context.Context, uid int64) (Profile, error)
	UpdateStatus(ctx context.Context, uid int64, status uint8) error

	FindPhotosByProfileID(ctx context.Context, profileID int64) ([]Photo, error)
	FindPromptsByProfileID(ctx context.Context, profileID int64) ([]Prompt, error)
	FindPhoto(ctx context.Context, profileID, id int64) (Photo, error)
	FindPrompt(ctx context.Context, profileID, id int64) (Prompt, error)
	CreatePhoto(ctx context.Context, p Photo) (int64, error)
	CreatePrompt(ctx context.Context, p Prompt) (int64, error)
}

type profileDAO struct {
	db *egorm.Component
}

func NewProfileGORMDAO(db *egorm.Component) ProfileDAO {
	return &profileDAO{db: db}
}

func (d *profileDAO) Upsert(ctx context.Context, p Profile) (int64, error) {
	now := time.Now().UnixMilli()
	p.Ctime, p.Utime = now, now
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "uid"}},
		DoUpdates: clause.Assignments(map[string]any{
			"nickname": p.Nickname,
			"bio":      p.Bio,
			"utime":    now,
		}),
	}).Create(&p).Error
	if err != nil {
		return 0, err
	}
	if p.Id == 0 {
		// 冲突更新时 gorm 不回填主键
		res, err1 := d.FindByUID(ctx, p.Uid)
		return res.Id, err1
	}
	return p.Id, nil
}

func (d *profileDAO) FindByUID(ctx context.Context, uid int64) (Profile, error) {
	var res Profile
	err := d.db.WithContext(ctx).First(&res, "uid = ?", uid).Error
	return res, err
}

func (d *profileDAO) UpdateStatus(ctx context.Context, uid int64, status uint8) error {
	res := d.db.WithContext(ctx).Model(&Profile{}).
		Where("uid = ?", uid).
		Updates(map[string]any{
			"status": status,
			"utime":  time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("更新资料状态失败")
	}
	return nil
}

func (d *profileDAO) FindPhotosByProfileID(ctx context.Context, profileID int64) ([]Photo, error) {
	var res []Photo
	err := d.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("position ASC, id ASC").
		Find(&res).Error
	return res, err
}

func (d *profileDAO) FindPromptsByProfileID(ctx context.Context, profileID int64) ([]Prompt, error) {
	var res []Prompt
	err := d.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("id ASC").
		Find(&res).Error
	return res, err
}

func (d *profileDAO) FindPhoto(ctx context.Context, profileID, id int64) (Photo, error) {
	var res Photo
	err := d.db.WithContext(ctx).First(&res, "id = ? AND profile_id = ?", id, profileID).Error
	return res, err
}

func (d *profileDAO) FindPrompt(ctx context.Context, profileID, id int64) (Prompt, error) {
	var res Prompt
	err := d.db.WithContext(ctx).First(&res, "id = ? AND profile_id = ?", id, profileID).Error
	return res, err
}

func (d *profileDAO) CreatePhoto(ctx context.Context, p Photo) (int64, error) {
	now := time.Now().UnixMilli()
	p.Ctime, p.Utime = now, now
	err := d.db.WithContext(ctx).Create(&p).Error
	return p.Id, err
}

func (d *profileDAO) CreatePrompt(ctx context.Context, p Prompt) (int64, error) {
	now := time.Now().UnixMilli()
	p.Ctime, p.Utime = now, now
	err := d.db.WithContext(ctx).Create(&p).Error
	return p.Id, err
}

type Profile struct {
	Id       int64  `gorm:"primaryKey;autoIncrement;comment:资料自增ID"`
	Uid      int64  `gorm:"not null;uniqueIndex:uniq_uid;comment:用户ID"`
	Nickname string `gorm:"type:varchar(128);not null;default:'';comment:昵称"`
	Bio      string `gorm:"type:text;comment:个人简介"`
	Status   uint8  `gorm:"type:tinyint unsigned;not null;default:1;comment:资料状态 1=正常 2=测试中 3=测试完成"`
	Ctime    int64
	Utime    int64
}

type Photo struct {
	Id        int64  `gorm:"primaryKey;autoIncrement;comment:照片自增ID"`
	ProfileID int64  `gorm:"column:profile_id;not null;index:idx_profile_id;comment:资料ID"`
	ObjectKey string `gorm:"type:varchar(512);not null;comment:对象存储键"`
	Position  int    `gorm:"not null;default:0;comment:展示顺序"`
	Ctime     int64
	Utime     int64
}

type Prompt struct {
	Id        int64  `gorm:"primaryKey;autoIncrement;comment:提示问答自增ID"`
	ProfileID int64  `gorm:"column:profile_id;not null;index:idx_profile_id;comment:资料ID"`
	Question  string `gorm:"type:varchar(512);not null;comment:问题"`
	Answer    string `gorm:"type:text;comment:回答"`
	Ctime     int64
	Utime     int64
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Profile{}, &Photo{}, &Prompt{})
}
