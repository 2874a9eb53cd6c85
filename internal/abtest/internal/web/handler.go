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
	"context"
	"errors"
	"fmt"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/mirror/internal/abtest/internal/domain"
	"github.com/ecodeclub/mirror/internal/abtest/internal/service"
	"github.com/gin-gonic/gin"
)

var _ ginx.Handler = &Handler{}

type Handler struct {
	svc   service.Service
	cache ecache.Cache
}

func NewHandler(svc service.Service, cache ecache.Cache) *Handler {
	return &Handler{svc: svc, cache: cache}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/test")
	g.POST("/create", ginx.BS[CreateTestReq](h.CreateTest))
	g.POST("/replacement", ginx.BS[CreateReplacementTestReq](h.CreateReplacementTest))
	g.POST("/detail", ginx.BS[DetailTestReq](h.RetrieveTestDetail))
	g.POST("/list", ginx.BS[ListTestsReq](h.ListTests))
	g.POST("/complete", ginx.BS[CompleteTestReq](h.CompleteTest))
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

func (h *Handler) CreateTest(ctx *ginx.Context, req CreateTestReq, sess session.Session) (ginx.Result, error) {
	if err := h.checkRequestID(ctx.Request.Context(), req.RequestID); err != nil {
		return systemErrorResult, fmt.Errorf("请求ID错误: %w", err)
	}
	typ, ok := domain.ParseTestType(req.Type)
	if !ok {
		return invalidItemTypeResult, fmt.Errorf("未知的测试类型: %q", req.Type)
	}
	var kind domain.ItemKind
	if typ != domain.TestTypeFullProfile {
		kind, ok = domain.ParseItemKind(req.ItemKind)
		if !ok {
			return invalidItemTypeResult, fmt.Errorf("未知的条目类型: %q", req.ItemKind)
		}
	}
	t, err := h.svc.CreateTest(ctx.Request.Context(), sess.Claims().Uid, typ, kind, req.ItemID)
	if err != nil {
		return h.mapCreateErr(err)
	}
	return ginx.Result{
		Data: newTest(t),
	}, nil
}

func (h *Handler) CreateReplacementTest(ctx *ginx.Context, req CreateReplacementTestReq, sess session.Session) (ginx.Result, error) {
	if err := h.checkRequestID(ctx.Request.Context(), req.RequestID); err != nil {
		return systemErrorResult, fmt.Errorf("请求ID错误: %w", err)
	}
	kind, ok := domain.ParseItemKind(req.ItemKind)
	if !ok {
		return invalidItemTypeResult, fmt.Errorf("未知的条目类型: %q", req.ItemKind)
	}
	t, err := h.svc.CreateReplacementTest(ctx.Request.Context(), sess.Claims().Uid, kind, req.ItemID,
		domain.ReplacementContent{
			PhotoKey: req.PhotoKey,
			Question: req.Question,
			Answer:   req.Answer,
		})
	if err != nil {
		return h.mapCreateErr(err)
	}
	return ginx.Result{
		Data: newTest(t),
	}, nil
}

func (h *Handler) RetrieveTestDetail(ctx *ginx.Context, req DetailTestReq, sess session.Session) (ginx.Result, error) {
	t, err := h.svc.Detail(ctx.Request.Context(), sess.Claims().Uid, req.SN)
	if errors.Is(err, service.ErrTestNotFound) {
		return testNotFoundResult, err
	}
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: newTest(t),
	}, nil
}

func (h *Handler) ListTests(ctx *ginx.Context, req ListTestsReq, sess session.Session) (ginx.Result, error) {
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}
	tests, total, err := h.svc.List(ctx.Request.Context(), sess.Claims().Uid, req.Offset, req.Limit)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: ListTestsResp{
			Total: total,
			Tests: slice.Map(tests, func(idx int, src domain.Test) Test {
				return newTest(src)
			}),
		},
	}, nil
}

func (h *Handler) CompleteTest(ctx *ginx.Context, req CompleteTestReq, sess session.Session) (ginx.Result, error) {
	t, err := h.svc.Complete(ctx.Request.Context(), sess.Claims().Uid, req.SN)
	switch {
	case errors.Is(err, service.ErrTestNotFound):
		return testNotFoundResult, err
	case errors.Is(err, service.ErrInvalidTestStatus):
		return invalidTestStatusResult, err
	case err != nil:
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: newTest(t),
	}, nil
}

func (h *Handler) mapCreateErr(err error) (ginx.Result, error) {
	switch {
	case errors.Is(err, service.ErrInsufficientCredits):
		return insufficientCreditsResult, err
	case errors.Is(err, service.ErrProfileNotFound):
		return profileNotFoundResult, err
	case errors.Is(err, service.ErrItemNotFound):
		return itemNotFoundResult, err
	case errors.Is(err, service.ErrInvalidItemType):
		return invalidItemTypeResult, err
	default:
		return systemErrorResult, err
	}
}

func (h *Handler) checkRequestID(ctx context.Context, requestID string) error {
	if requestID == "" {
		return fmt.Errorf("请求ID为空")
	}
	key := h.createTestRequestKey(requestID)
	val := h.cache.Get(ctx, key)
	if !val.KeyNotFound() {
		return fmt.Errorf("重复请求")
	}
	if err := h.cache.Set(ctx, key, requestID, 0); err != nil {
		return fmt.Errorf("缓存请求ID失败: %w", err)
	}
	return nil
}

func (h *Handler) createTestRequestKey(requestID string) string {
	return fmt.Sprintf("test:create:%s", requestID)
}
