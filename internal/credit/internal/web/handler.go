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
	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/mirror/internal/credit/internal/domain"
	"github.com/ecodeclub/mirror/internal/credit/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/lithammer/shortuuid/v4"
)

var _ ginx.Handler = &Handler{}

type Handler struct {
	svc service.Service
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/credit")
	g.POST("/detail", ginx.S(h.QueryCredits))
	g.POST("/logs", ginx.BS[LogsReq](h.QueryCreditLogs))
	g.POST("/add", ginx.BS[AddCreditsReq](h.AddCredits))
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

func (h *Handler) QueryCredits(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	c, _ := h.svc.GetCreditsByUID(ctx.Request.Context(), sess.Claims().Uid)
	return ginx.Result{
		Data: Credit{
			Amount:       c.Available(),
			LockedAmount: c.LockedTotalAmount,
		},
	}, nil
}

func (h *Handler) QueryCreditLogs(ctx *ginx.Context, req LogsReq, sess session.Session) (ginx.Result, error) {
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}
	logs, err := h.svc.ListCreditLogsByUID(ctx.Request.Context(), sess.Claims().Uid, req.Offset, req.Limit)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: CreditLogList{
			Logs: slice.Map(logs, func(idx int, src domain.CreditLog) CreditLog {
				return CreditLog{
					ID:           src.ID,
					ChangeAmount: src.ChangeAmount,
					Balance:      src.Balance,
					Biz:          src.Biz,
					Desc:         src.Desc,
					Status:       int64(src.Status),
					Ctime:        src.Ctime,
				}
			}),
		},
	}, nil
}

func (h *Handler) AddCredits(ctx *ginx.Context, req AddCreditsReq, sess session.Session) (ginx.Result, error) {
	if req.Amount <= 0 {
		return invalidAmountResult, nil
	}
	uid := sess.Claims().Uid
	err := h.svc.AddCredits(ctx.Request.Context(), domain.Credit{
		Uid: uid,
		Logs: []domain.CreditLog{
			{
				Key:          shortuuid.New(),
				Uid:          uid,
				ChangeAmount: req.Amount,
				Biz:          "credit",
				BizId:        uid,
				Desc:         req.Desc,
			},
		},
	})
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Msg: "OK"}, nil
}
