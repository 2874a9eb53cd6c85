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

//go:build wireinject

package abtest

import (
	"sync"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/mirror/internal/abtest/internal/domain"
	"github.com/ecodeclub/mirror/internal/abtest/internal/repository"
	"github.com/ecodeclub/mirror/internal/abtest/internal/repository/dao"
	"github.com/ecodeclub/mirror/internal/abtest/internal/service"
	"github.com/ecodeclub/mirror/internal/abtest/internal/web"
	"github.com/ecodeclub/mirror/internal/credit"
	"github.com/ecodeclub/mirror/internal/pkg/sequencenumber"
	"github.com/ecodeclub/mirror/internal/profile"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
)

type Handler = web.Handler
type Service = service.Service
type Test = domain.Test
type TestItem = domain.TestItem
type TestType = domain.TestType
type TestStatus = domain.TestStatus
type ItemKind = domain.ItemKind
type ReplacementContent = domain.ReplacementContent

const (
	TestTypeFullProfile  = domain.TestTypeFullProfile
	TestTypeSinglePhoto  = domain.TestTypeSinglePhoto
	TestTypeSinglePrompt = domain.TestTypeSinglePrompt

	TestStatusPending    = domain.TestStatusPending
	TestStatusInProgress = domain.TestStatusInProgress
	TestStatusComplete   = domain.TestStatusComplete

	ItemKindPhoto  = domain.ItemKindPhoto
	ItemKindPrompt = domain.ItemKindPrompt
)

var (
	ErrInsufficientCredits = service.ErrInsufficientCredits
	ErrProfileNotFound     = service.ErrProfileNotFound
	ErrItemNotFound        = service.ErrItemNotFound
	ErrInvalidItemType     = service.ErrInvalidItemType
	ErrTestNotFound        = service.ErrTestNotFound
	ErrInvalidTestStatus   = service.ErrInvalidTestStatus
)

type Module struct {
	Svc Service
	Hdl *Handler
}

func InitModule(db *egorm.Component, ec ecache.Cache,
	creditModule *credit.Module, profileModule *profile.Module) *Module {
	wire.Build(
		wire.Struct(new(Module), "*"),
		initService,
		web.NewHandler,
		wire.FieldsOf(new(*credit.Module), "Svc"),
		wire.FieldsOf(new(*profile.Module), "Svc"),
	)
	return new(Module)
}

var (
	once = &sync.Once{}
	svc  service.Service
)

func initService(db *egorm.Component, creditSvc credit.Service, profileSvc profile.Service) Service {
	once.Do(func() {
		_ = dao.InitTables(db)
		d := dao.NewTestGORMDAO(db)
		r := repository.NewTestRepository(d)
		svc = service.NewService(r, creditSvc, profileSvc, sequencenumber.NewGenerator())
	})
	return svc
}
