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
	"fmt"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/mirror/internal/rating/internal/domain"
	"github.com/ecodeclub/mirror/internal/rating/internal/service"
	"github.com/gin-gonic/gin"
)

var _ ginx.Handler = &Handler{}

type Handler struct {
	svc service.Service
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/rating")
	g.POST("/submit", ginx.BS[SubmitRatingReq](h.SubmitRating))

	f := server.Group("/feedback")
	f.POST("/summary", ginx.S(h.RetrieveProfileSummary))
	f.POST("/photo", ginx.BS[ItemDetailReq](h.RetrievePhotoDetail))
	f.POST("/prompt", ginx.BS[ItemDetailReq](h.RetrievePromptDetail))
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

func (h *Handler) SubmitRating(ctx *ginx.Context, req SubmitRatingReq, sess session.Session) (ginx.Result, error) {
	kind, ok := domain.ParseItemKind(req.ItemKind)
	if !ok {
		return itemNotInTestResult, fmt.Errorf("未知的条目类型: %q", req.ItemKind)
	}
	value, ok := domain.ParseValue(req.Value)
	if !ok {
		return invalidRatingValueResult, fmt.Errorf("未知的评分值: %q", req.Value)
	}
	r, err := h.svc.Submit(ctx.Request.Context(), req.TestSN, domain.Rating{
		RaterID:   sess.Claims().Uid,
		ItemKind:  kind,
		ItemID:    req.ItemID,
		Value:     value,
		Feedback:  req.Feedback,
		Anonymous: req.Anonymous,
	})
	switch {
	case errors.Is(err, service.ErrTestNotFound):
		return testNotFoundResult, err
	case errors.Is(err, service.ErrItemNotInTest):
		return itemNotInTestResult, err
	case errors.Is(err, service.ErrCannotRateOwnTest):
		return cannotRateOwnTestResult, err
	case errors.Is(err, service.ErrAlreadyRated):
		return alreadyRatedResult, err
	case errors.Is(err, service.ErrInvalidRatingValue):
		return invalidRatingValueResult, err
	case err != nil:
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: r.ID,
	}, nil
}

func (h *Handler) RetrieveProfileSummary(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	summary, err := h.svc.ProfileSummary(ctx.Request.Context(), sess.Claims().Uid)
	if errors.Is(err, service.ErrProfileNotFound) {
		return profileNotFoundResult, err
	}
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: ProfileSummaryResp{
			Photos: slice.Map(summary.Photos, func(idx int, src domain.ItemAggregate) ItemAggregate {
				return newItemAggregate(src)
			}),
			Prompts: slice.Map(summary.Prompts, func(idx int, src domain.ItemAggregate) ItemAggregate {
				return newItemAggregate(src)
			}),
			Total: newItemAggregate(summary.Total),
		},
	}, nil
}

func (h *Handler) RetrievePhotoDetail(ctx *ginx.Context, req ItemDetailReq, sess session.Session) (ginx.Result, error) {
	return h.itemDetail(ctx, req, sess, domain.ItemKindPhoto)
}

func (h *Handler) RetrievePromptDetail(ctx *ginx.Context, req ItemDetailReq, sess session.Session) (ginx.Result, error) {
	return h.itemDetail(ctx, req, sess, domain.ItemKindPrompt)
}

func (h *Handler) itemDetail(ctx *ginx.Context, req ItemDetailReq, sess session.Session, kind domain.ItemKind) (ginx.Result, error) {
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}
	aggr, ratings, err := h.svc.ItemDetail(ctx.Request.Context(), sess.Claims().Uid, kind, req.ItemID, req.Offset, req.Limit)
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		return profileNotFoundResult, err
	case errors.Is(err, service.ErrItemNotFound):
		return itemNotFoundResult, err
	case err != nil:
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: newItemDetailResp(aggr, ratings),
	}, nil
}
