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

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecodeclub/mirror/internal/profile/internal/domain"
	"github.com/ecodeclub/mirror/internal/profile/internal/repository"
)

var (
	ErrProfileNotFound = errors.New("资料不存在")
	ErrItemNotFound    = errors.New("照片或提示不存在")
)

type Service interface {
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

type service struct {
	repo repository.ProfileRepository
}

func NewService(repo repository.ProfileRepository) Service {
	return &service{repo: repo}
}

func (s *service) Save(ctx context.Context, p domain.Profile) (int64, error) {
	if p.Status == 0 {
		p.Status = domain.StatusActive
	}
	return s.repo.Save(ctx, p)
}

func (s *service) ProfileByUID(ctx context.Context, uid int64) (domain.Profile, error) {
	p, err := s.repo.ProfileByUID(ctx, uid)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return domain.Profile{}, fmt.Errorf("%w: uid=%d", ErrProfileNotFound, uid)
	}
	return p, err
}

func (s *service) UpdateStatus(ctx context.Context, uid int64, status domain.Status) error {
	return s.repo.UpdateStatus(ctx, uid, status)
}

func (s *service) Photos(ctx context.Context, profileID int64) ([]domain.Photo, error) {
	return s.repo.Photos(ctx, profileID)
}

func (s *service) Prompts(ctx context.Context, profileID int64) ([]domain.Prompt, error) {
	return s.repo.Prompts(ctx, profileID)
}

func (s *service) Photo(ctx context.Context, profileID, id int64) (domain.Photo, error) {
	p, err := s.repo.Photo(ctx, profileID, id)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return domain.Photo{}, fmt.Errorf("%w: photo=%d", ErrItemNotFound, id)
	}
	return p, err
}

func (s *service) Prompt(ctx context.Context, profileID, id int64) (domain.Prompt, error) {
	p, err := s.repo.Prompt(ctx, profileID, id)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return domain.Prompt{}, fmt.Errorf("%w: prompt=%d", ErrItemNotFound, id)
	}
	return p, err
}

func (s *service) CreatePhoto(ctx context.Context, p domain.Photo) (domain.Photo, error) {
	return s.repo.CreatePhoto(ctx, p)
}

func (s *service) CreatePrompt(ctx context.Context, p domain.Prompt) (domain.Prompt, error) {
	return s.repo.CreatePrompt(ctx, p)
}
