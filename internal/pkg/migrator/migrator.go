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

package migrator

import (
	"errors"
	"fmt"
	"time"

	"github.com/ego-component/egorm"
	"github.com/gotomicro/ego/core/elog"
	"gorm.io/gorm"
)

var (
	ErrDuplicatedMigration = errors.New("迁移名称重复")
	ErrNothingToRollback   = errors.New("没有可回滚的迁移")
)

// Migration 一次结构或数据迁移, Up 和 Down 在同一个事务内执行
type Migration struct {
	Name string
	Up   func(tx *gorm.DB) error
	Down func(tx *gorm.DB) error
}

// Record 已执行迁移的台账
type Record struct {
	Id         int64  `gorm:"primaryKey;autoIncrement;comment:迁移记录自增ID"`
	Name       string `gorm:"type:varchar(255);not null;uniqueIndex:unq_migration_name;comment:迁移名称"`
	ExecutedAt int64  `gorm:"not null;comment:执行时间"`
}

func (Record) TableName() string {
	return "migrations"
}

type Migrator struct {
	db     *egorm.Component
	logger *elog.Component
}

func NewMigrator(db *egorm.Component) *Migrator {
	return &Migrator{
		db:     db,
		logger: elog.DefaultLogger,
	}
}

// Apply 按声明顺序执行未执行过的迁移, 每个迁移与其台账记录在同一事务内提交
func (m *Migrator) Apply(migrations []Migration) error {
	if err := m.checkNames(migrations); err != nil {
		return err
	}
	if err := m.db.AutoMigrate(&Record{}); err != nil {
		return fmt.Errorf("初始化迁移台账失败: %w", err)
	}
	applied, err := m.Applied()
	if err != nil {
		return err
	}
	appliedSet := make(map[string]struct{}, len(applied))
	for _, name := range applied {
		appliedSet[name] = struct{}{}
	}
	for _, mi := range migrations {
		if _, ok := appliedSet[mi.Name]; ok {
			continue
		}
		migration := mi
		err = m.db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return fmt.Errorf("执行迁移 %q 失败: %w", migration.Name, err)
			}
			return tx.Create(&Record{
				Name:       migration.Name,
				ExecutedAt: time.Now().UnixMilli(),
			}).Error
		})
		if err != nil {
			return err
		}
		m.logger.Info("迁移执行成功", elog.String("name", migration.Name))
	}
	return nil
}

// Rollback 回滚最近一次已执行的迁移
func (m *Migrator) Rollback(migrations []Migration) error {
	var last Record
	err := m.db.Order("id DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNothingToRollback
	}
	if err != nil {
		return err
	}
	for _, mi := range migrations {
		if mi.Name != last.Name {
			continue
		}
		migration := mi
		return m.db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Down(tx); err != nil {
				return fmt.Errorf("回滚迁移 %q 失败: %w", migration.Name, err)
			}
			return tx.Delete(&Record{}, "id = ?", last.Id).Error
		})
	}
	return fmt.Errorf("找不到迁移 %q 的定义", last.Name)
}

// Applied 返回已执行迁移的名称, 按执行顺序排列
func (m *Migrator) Applied() ([]string, error) {
	var records []Record
	if err := m.db.Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.Name)
	}
	return names, nil
}

func (m *Migrator) checkNames(migrations []Migration) error {
	seen := make(map[string]struct{}, len(migrations))
	for _, mi := range migrations {
		if _, ok := seen[mi.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicatedMigration, mi.Name)
		}
		seen[mi.Name] = struct{}{}
	}
	return nil
}
