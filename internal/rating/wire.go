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

package rating

import (
	"sync"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/mirror/internal/abtest"
	"github.com/ecodeclub/mirror/internal/profile"
	"github.com/ecodeclub/mirror/internal/rating/internal/domain"
	"github.com/ecodeclub/mirror/internal/rating/internal/event"
	"github.com/ecodeclub/mirror/internal/rating/internal/repository"
	"github.com/ecodeclub/mirror/internal/rating/internal/repository/cache"
	"github.com/ecodeclub/mirror/internal/rating/internal/repository/dao"
	"github.com/ecodeclub/mirror/internal/rating/internal/service"
	"github.com/ecodeclub/mirror/internal/rating/internal/web"
	"github.com/ecodeclub/mq-api"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
)

type Handler = web.Handler
type Service = service.Service
type Rating = domain.Rating
type ItemAggregate = domain.ItemAggregate
type ProfileSummary = domain.ProfileSummary
type Value = domain.Value
type ItemKind = domain.ItemKind

const (
	ValueKeep    = domain.ValueKeep
	ValueNeutral = domain.ValueNeutral
	ValueDelete  = domain.ValueDelete

	ItemKindPhoto  = domain.ItemKindPhoto
	ItemKindPrompt = domain.ItemKindPrompt
)

var (
	ErrTestNotFound       = service.ErrTestNotFound
	ErrItemNotInTest      = service.ErrItemNotInTest
	ErrInvalidRatingValue = service.ErrInvalidRatingValue
	ErrCannotRateOwnTest  = service.ErrCannotRateOwnTest
	ErrAlreadyRated       = service.ErrAlreadyRated
	ErrItemNotFound       = service.ErrItemNotFound
	ErrProfileNotFound    = service.ErrProfileNotFound
)

type Module struct {
	Svc Service
	Hdl *Handler
}

func InitModule(db *egorm.Component, ec ecache.Cache, q mq.MQ,
	abtestModule *abtest.Module, profileModule *profile.Module) (*Module, error) {
	wire.Build(
		wire.Struct(new(Module), "*"),
		initService,
		web.NewHandler,
		wire.FieldsOf(new(*abtest.Module), "Svc"),
		wire.FieldsOf(new(*profile.Module), "Svc"),
	)
	return new(Module), nil
}

var (
	once = &sync.Once{}
	svc  service.Service
)

func initService(db *egorm.Component, ec ecache.Cache, q mq.MQ,
	abtestSvc abtest.Service, profileSvc profile.Service) (Service, error) {
	var err error
	once.Do(func() {
		if err = dao.InitTables(db); err != nil {
			return
		}
		var producer event.CreditEventProducer
		producer, err = event.NewCreditEventProducer(q)
		if err != nil {
			return
		}
		d := dao.NewRatingGORMDAO(db)
		r := repository.NewRatingRepository(d)
		c := cache.NewItemAggregateCache(ec)
		svc = service.NewService(r, c, abtestSvc, profileSvc, producer)
	})
	return svc, err
}
