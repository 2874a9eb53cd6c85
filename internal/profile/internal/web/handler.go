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

package web

import (
	"errors"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/mirror/internal/profile/internal/domain"
	"github.com/ecodeclub/mirror/internal/profile/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
)

var _ ginx.Handler = &Handler{}

type Handler struct {
	svc    service.Service
	logger *elog.Component
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{
		svc:    svc,
		logger: elog.DefaultLogger,
	}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/profile")
	g.POST("/save", ginx.BS[SaveReq](h.Save))
	g.POST("/detail", ginx.S(h.Detail))
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

func (h *Handler) Save(ctx *ginx.Context, req SaveReq, sess session.Session) (ginx.Result, error) {
	id, err := h.svc.Save(ctx.Request.Context(), domain.Profile{
		Uid:      sess.Claims().Uid,
		Nickname: req.Nickname,
		Bio:      req.Bio,
	})
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: id,
	}, nil
}

func (h *Handler) Detail(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	p, err := h.svc.ProfileByUID(ctx.Request.Context(), sess.Claims().Uid)
	if errors.Is(err, service.ErrProfileNotFound) {
		return profileNotFoundResult, err
	}
	if err != nil {
		return systemErrorResult, err
	}
	photos, err := h.svc.Photos(ctx.Request.Context(), p.ID)
	if err != nil {
		return systemErrorResult, err
	}
	prompts, err := h.svc.Prompts(ctx.Request.Context(), p.ID)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: Profile{
			ID:       p.ID,
			Nickname: p.Nickname,
			Bio:      p.Bio,
			Status:   uint8(p.Status),
			Photos: slice.Map(photos, func(idx int, src domain.Photo) Photo {
				return newPhoto(src)
			}),
			Prompts: slice.Map(prompts, func(idx int, src domain.Prompt) Prompt {
				return newPrompt(src)
			}),
		},
	}, nil
}
