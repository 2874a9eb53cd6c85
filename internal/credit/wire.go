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

package credit

import (
	"context"
	"sync"

	"github.com/ecodeclub/mirror/internal/credit/internal/domain"
	"github.com/ecodeclub/mirror/internal/credit/internal/event"
	"github.com/ecodeclub/mirror/internal/credit/internal/job"
	"github.com/ecodeclub/mirror/internal/credit/internal/repository"
	"github.com/ecodeclub/mirror/internal/credit/internal/repository/dao"
	"github.com/ecodeclub/mirror/internal/credit/internal/service"
	"github.com/ecodeclub/mirror/internal/credit/internal/web"
	"github.com/ecodeclub/mq-api"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
)

type Credit = domain.Credit
type CreditLog = domain.CreditLog
type Service = service.Service
type Handler = web.Handler
type CloseTimeoutLockedCreditsJob = job.CloseTimeoutLockedCreditsJob

var (
	ErrCreditNotEnough     = service.ErrCreditNotEnough
	ErrDuplicatedCreditLog = service.ErrDuplicatedCreditLog
	ErrRecordNotFound      = service.ErrRecordNotFound
)

type Module struct {
	Svc Service
	Hdl *Handler
	C   *event.CreditIncreaseConsumer
}

func InitModule(db *egorm.Component, q mq.MQ) (*Module, error) {
	wire.Build(
		wire.Struct(new(Module), "*"),
		InitService,
		web.NewHandler,
		initCreditConsumer,
	)
	return new(Module), nil
}

var (
	once = &sync.Once{}
	svc  service.Service
)

func InitService(db *egorm.Component) Service {
	once.Do(func() {
		_ = dao.InitTables(db)
		d := dao.NewCreditGORMDAO(db)
		r := repository.NewCreditRepository(d)
		svc = service.NewCreditService(r)
	})
	return svc
}

func initCreditConsumer(svc service.Service, q mq.MQ) *event.CreditIncreaseConsumer {
	c, err := event.NewCreditIncreaseConsumer(svc, q)
	if err != nil {
		panic(err)
	}
	c.Start(context.Background())
	return c
}

func NewCloseTimeoutLockedCreditsJob(svc Service, minutes, seconds int64, limit int) *CloseTimeoutLockedCreditsJob {
	return job.NewCloseTimeoutLockedCreditsJob(svc, minutes, seconds, limit)
}
