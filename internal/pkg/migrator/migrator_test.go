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

//go:build e2e

package migrator_test

import (
	"testing"

	"github.com/ecodeclub/mirror/internal/pkg/migrator"
	testioc "github.com/ecodeclub/mirror/internal/test/ioc"
	"github.com/ego-component/egorm"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type MigratorTestSuite struct {
	suite.Suite
	db *egorm.Component
}

func TestMigrator(t *testing.T) {
	suite.Run(t, new(MigratorTestSuite))
}

func (s *MigratorTestSuite) SetupSuite() {
	s.db = testioc.InitDB()
}

func (s *MigratorTestSuite) TearDownTest() {
	err := s.db.Exec("DROP TABLE IF EXISTS `migrations`").Error
	s.NoError(err)
	err = s.db.Exec("DROP TABLE IF EXISTS `scratch`").Error
	s.NoError(err)
}

func (s *MigratorTestSuite) migrations() []migrator.Migration {
	return []migrator.Migration{
		{
			Name: "scratch:init",
			Up: func(tx *gorm.DB) error {
				return tx.Exec("CREATE TABLE `scratch` (id BIGINT PRIMARY KEY AUTO_INCREMENT)").Error
			},
			Down: func(tx *gorm.DB) error {
				return tx.Exec("DROP TABLE `scratch`").Error
			},
		},
		{
			Name: "scratch:add-name",
			Up: func(tx *gorm.DB) error {
				return tx.Exec("ALTER TABLE `scratch` ADD COLUMN name VARCHAR(64) NOT NULL DEFAULT ''").Error
			},
			Down: func(tx *gorm.DB) error {
				return tx.Exec("ALTER TABLE `scratch` DROP COLUMN name").Error
			},
		},
	}
}

func (s *MigratorTestSuite) TestApply() {
	t := s.T()
	m := migrator.NewMigrator(s.db)

	err := m.Apply(s.migrations())
	require.NoError(t, err)
	applied, err := m.Applied()
	require.NoError(t, err)
	require.Equal(t, []string{"scratch:init", "scratch:add-name"}, applied)
	require.True(t, s.db.Migrator().HasColumn("scratch", "name"))

	// 重复执行不生效
	err = m.Apply(s.migrations())
	require.NoError(t, err)
	applied, err = m.Applied()
	require.NoError(t, err)
	require.Len(t, applied, 2)
}

func (s *MigratorTestSuite) TestApply_DuplicatedName() {
	t := s.T()
	m := migrator.NewMigrator(s.db)
	migrations := s.migrations()
	migrations[1].Name = migrations[0].Name
	err := m.Apply(migrations)
	require.ErrorIs(t, err, migrator.ErrDuplicatedMigration)
}

func (s *MigratorTestSuite) TestApply_FailedMigrationNotRecorded() {
	t := s.T()
	m := migrator.NewMigrator(s.db)
	migrations := s.migrations()
	migrations[1].Up = func(tx *gorm.DB) error {
		return tx.Exec("ALTER TABLE `no_such_table` ADD COLUMN name VARCHAR(64)").Error
	}
	err := m.Apply(migrations)
	require.Error(t, err)
	// 第一条成功入账, 失败的那条没有
	applied, err := m.Applied()
	require.NoError(t, err)
	require.Equal(t, []string{"scratch:init"}, applied)
}

func (s *MigratorTestSuite) TestRollback() {
	t := s.T()
	m := migrator.NewMigrator(s.db)
	require.NoError(t, m.Apply(s.migrations()))

	err := m.Rollback(s.migrations())
	require.NoError(t, err)
	require.False(t, s.db.Migrator().HasColumn("scratch", "name"))
	applied, err := m.Applied()
	require.NoError(t, err)
	require.Equal(t, []string{"scratch:init"}, applied)

	require.NoError(t, m.Rollback(s.migrations()))
	require.False(t, s.db.Migrator().HasTable("scratch"))
	err = m.Rollback(s.migrations())
	require.ErrorIs(t, err, migrator.ErrNothingToRollback)
}
