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

package repository

import (
	"context"
	"time"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/mirror/internal/profile/internal/domain"
	"github.com/ecodeclub/mirror/internal/profile/internal/repository/dao"
)

var (
	ErrRecordNotFound = dao.ErrRecordNotFound
)

type ProfileRepository interface {
	Save(ctx context.Context, p domain.Profile) (int64, error)
	ProfileByUID(ctx context.Context, uid int64) (domain.Profile, error)
	UpdateStatus(ctx context.Context, uid int64, status domain.Status) error

	Photos(ctx context.Context, profileID int64) ([]domain.Photo, error)
	Prompts(ctx context.Context, profileID int64) ([]domain.Prompt, error)
	Photo(ctx context.Context, profileID, id int64) (domain.Photo, error)
	Prompt(ctx context.Context, profileID, id int64) (domain.Prompt, error)
	CreatePhoto(ctx context.Context, p domain.Photo) (domain.Photo, error)
	CreatePrompt(ctx context.Context, p domain.Prompt) (domain.Prompt, error)
}

type profileRepository struct {
	dao dao.ProfileDAO
}

func NewProfileRepository(d dao.ProfileDAO) ProfileRepository {
	return &profileRepository{dao: d}
}

func (r *profileRepository) Save(ctx context.Context, p domain.Profile) (int64, error) {
	return r.dao.Upsert(ctx, dao.Profile{
		Id:       p.ID,
		Uid:      p.Uid,
		Nickname: p.Nickname,
		Bio:      p.Bio,
		Status:   uint8(p.Status),
	})
}

func (r *profileRepository) ProfileByUID(ctx context.Context, uid int64) (domain.Profile, error) {
	p, err := r.dao.FindByUID(ctx, uid)
	if err != nil {
		return domain.Profile{}, err
	}
	return r.toDomain(p), nil
}

func (r *profileRepository) UpdateStatus(ctx context.Context, uid int64, status domain.Status) error {
	return r.dao.UpdateStatus(ctx, uid, uint8(status))
}

func (r *profileRepository) Photos(ctx context.Context, profileID int64) ([]domain.Photo, error) {
	photos, err := r.dao.FindPhotosByProfileID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return slice.Map(photos, func(idx int, src dao.Photo) domain.Photo {
		return r.toDomainPhoto(src)
	}), nil
}

func (r *profileRepository) Prompts(ctx context.Context, profileID int64) ([]domain.Prompt, error) {
	prompts, err := r.dao.FindPromptsByProfileID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return slice.Map(prompts, func(idx int, src dao.Prompt) domain.Prompt {
		return r.toDomainPrompt(src)
	}), nil
}

func (r *profileRepository) Photo(ctx context.Context, profileID, id int64) (domain.Photo, error) {
	p, err := r.dao.FindPhoto(ctx, profileID, id)
	if err != nil {
		return domain.Photo{}, err
	}
	return r.toDomainPhoto(p), nil
}

func (r *profileRepository) Prompt(ctx context.Context, profileID, id int64) (domain.Prompt, error) {
	p, err := r.dao.FindPrompt(ctx, profileID, id)
	if err != nil {
		return domain.Prompt{}, err
	}
	return r.toDomainPrompt(p), nil
}

func (r *profileRepository) CreatePhoto(ctx context.Context, p domain.Photo) (domain.Photo, error) {
	id, err := r.dao.CreatePhoto(ctx, dao.Photo{
		ProfileID: p.ProfileID,
		ObjectKey: p.Key,
		Position:  p.Position,
	})
	if err != nil {
		return domain.Photo{}, err
	}
	p.ID = id
	return p, nil
}

func (r *profileRepository) CreatePrompt(ctx context.Context, p domain.Prompt) (domain.Prompt, error) {
	id, err := r.dao.CreatePrompt(ctx, dao.Prompt{
		ProfileID: p.ProfileID,
		Question:  p.Question,
		Answer:    p.Answer,
	})
	if err != nil {
		return domain.Prompt{}, err
	}
	p.ID = id
	return p, nil
}

func (r *profileRepository) toDomain(p dao.Profile) domain.Profile {
	return domain.Profile{
		ID:       p.Id,
		Uid:      p.Uid,
		Nickname: p.Nickname,
		Bio:      p.Bio,
		Status:   domain.Status(p.Status),
		Ctime:    time.UnixMilli(p.Ctime),
		Utime:    time.UnixMilli(p.Utime),
	}
}

func (r *profileRepository) toDomainPhoto(p dao.Photo) domain.Photo {
	return domain.Photo{
		ID:        p.Id,
		ProfileID: p.ProfileID,
		Key:       p.ObjectKey,
		Position:  p.Position,
		Ctime:     time.UnixMilli(p.Ctime),
	}
}

func (r *profileRepository) toDomainPrompt(p dao.Prompt) domain.Prompt {
	return domain.Prompt{
		ID:        p.Id,
		ProfileID: p.ProfileID,
		Question:  p.Question,
		Answer:    p.Answer,
		Ctime:     time.UnixMilli(p.Ctime),
	}
}
