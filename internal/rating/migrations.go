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

package rating

import (
	"github.com/ecodeclub/mirror/internal/pkg/migrator"
	"github.com/ecodeclub/mirror/internal/rating/internal/repository/dao"
	"gorm.io/gorm"
)

// Migrations 评分表的结构演进, 由 ioc 在启动时统一执行
func Migrations() []migrator.Migration {
	return []migrator.Migration{
		{
			Name: "ratings:init",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&dao.Rating{})
			},
			Down: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&dao.Rating{})
			},
		},
		{
			// 历史数据用 1-5 的数字分, 统一改为三档:
			// >=4 保留, ==3 中立, <=2 删除
			Name: "ratings:categorical-rating-value",
			Up: func(tx *gorm.DB) error {
				if !tx.Migrator().HasColumn(&dao.Rating{}, "score") {
					// 新装环境没有数字分列
					return nil
				}
				err := tx.Exec("UPDATE `ratings` SET rating_value = CASE WHEN score >= 4 THEN ? WHEN score = 3 THEN ? ELSE ? END",
					dao.RatingValueKeep, dao.RatingValueNeutral, dao.RatingValueDelete).Error
				if err != nil {
					return err
				}
				return tx.Exec("ALTER TABLE `ratings` DROP COLUMN score").Error
			},
			Down: func(tx *gorm.DB) error {
				if err := tx.Exec("ALTER TABLE `ratings` ADD COLUMN score TINYINT UNSIGNED NOT NULL DEFAULT 0").Error; err != nil {
					return err
				}
				// 档位只能还原出代表值
				return tx.Exec("UPDATE `ratings` SET score = CASE rating_value WHEN ? THEN 5 WHEN ? THEN 3 ELSE 1 END",
					dao.RatingValueKeep, dao.RatingValueNeutral).Error
			},
		},
	}
}
