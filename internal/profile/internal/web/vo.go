package web

import (
	"time"

	"github.com/ecodeclub/mirror/internal/profile/internal/domain"
)

type Profile struct {
	ID       int64    `json:"id,omitempty"`
	Nickname string   `json:"nickname,omitempty"`
	Bio      string   `json:"bio,omitempty"`
	Status   uint8    `json:"status,omitempty"`
	Photos   []Photo  `json:"photos,omitempty"`
	Prompts  []Prompt `json:"prompts,omitempty"`
}

type Photo struct {
	ID       int64  `json:"id,omitempty"`
	Key      string `json:"key,omitempty"`
	Position int    `json:"position,omitempty"`
	Ctime    string `json:"ctime,omitempty"`
}

type Prompt struct {
	ID       int64  `json:"id,omitempty"`
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
	Ctime    string `json:"ctime,omitempty"`
}

type SaveReq struct {
	Nickname string `json:"nickname"`
	Bio      string `json:"bio"`
}

func newPhoto(p domain.Photo) Photo {
	return Photo{
		ID:       p.ID,
		Key:      p.Key,
		Position: p.Position,
		Ctime:    p.Ctime.Format(time.DateTime),
	}
}

func newPrompt(p domain.Prompt) Prompt {
	return Prompt{
		ID:       p.ID,
		Question: p.Question,
		Answer:   p.Answer,
		Ctime:    p.Ctime.Format(time.DateTime),
	}
}
