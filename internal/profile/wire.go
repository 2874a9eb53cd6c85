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

package profile

import (
	"sync"

	"github.com/ecodeclub/mirror/internal/profile/internal/domain"
	"github.com/ecodeclub/mirror/internal/profile/internal/repository"
	"github.com/ecodeclub/mirror/internal/profile/internal/repository/dao"
	"github.com/ecodeclub/mirror/internal/profile/internal/service"
	"github.com/ecodeclub/mirror/internal/profile/internal/web"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
)

type Handler = web.Handler
type Service = service.Service
type Profile = domain.Profile
type Photo = domain.Photo
type Prompt = domain.Prompt
type Status = domain.Status

const (
	StatusActive   = domain.StatusActive
	StatusTesting  = domain.StatusTesting
	StatusComplete = domain.StatusComplete
)

var (
	ErrProfileNotFound = service.ErrProfileNotFound
	ErrItemNotFound    = service.ErrItemNotFound
)

type Module struct {
	Svc Service
	Hdl *Handler
}

func InitModule(db *egorm.Component) *Module {
	wire.Build(
		wire.Struct(new(Module), "*"),
		InitService,
		web.NewHandler,
	)
	return new(Module)
}

var (
	once = &sync.Once{}
	svc  service.Service
)

func InitService(db *egorm.Component) Service {
	once.Do(func() {
		_ = dao.InitTables(db)
		d := dao.NewProfileGORMDAO(db)
		r := repository.NewProfileRepository(d)
		svc = service.NewService(r)
	})
	return svc
}
