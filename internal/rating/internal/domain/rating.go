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

package domain

type Value uint8

const (
	// ValueKeep 评分人认为应该保留
	ValueKeep Value = 1
	// ValueNeutral 不置可否
	ValueNeutral Value = 2
	// ValueDelete 评分人认为应该删掉
	ValueDelete Value = 3
)

func (v Value) IsValid() bool {
	return v == ValueKeep || v == ValueNeutral || v == ValueDelete
}

func (v Value) String() string {
	switch v {
	case ValueKeep:
		return "keep"
	case ValueNeutral:
		return "neutral"
	case ValueDelete:
		return "delete"
	default:
		return "unknown"
	}
}

func ParseValue(s string) (Value, bool) {
	switch s {
	case "keep":
		return ValueKeep, true
	case "neutral":
		return ValueNeutral, true
	case "delete":
		return ValueDelete, true
	default:
		return 0, false
	}
}

type ItemKind uint8

const (
	ItemKindPhoto  ItemKind = 1
	ItemKindPrompt ItemKind = 2
)

func (k ItemKind) String() string {
	switch k {
	case ItemKindPhoto:
		return "photo"
	case ItemKindPrompt:
		return "prompt"
	default:
		return "unknown"
	}
}

func ParseItemKind(s string) (ItemKind, bool) {
	switch s {
	case "photo":
		return ItemKindPhoto, true
	case "prompt":
		return ItemKindPrompt, true
	default:
		return 0, false
	}
}

// Rating 一次评分, 落库后不可更改
type Rating struct {
	ID        int64
	TestID    int64
	RaterID   int64
	ItemKind  ItemKind
	ItemID    int64
	Value     Value
	Feedback  string
	Anonymous bool
	Ctime     int64
}

// ItemAggregate 单个条目跨所有测试的汇总
type ItemAggregate struct {
	ItemKind ItemKind
	ItemID   int64
	Keep     int64
	Neutral  int64
	Remove   int64
	Total    int64
	// Score = Keep - Remove
	Score int64
}

type ProfileSummary struct {
	Photos  []ItemAggregate
	Prompts []ItemAggregate
	// Total 全部条目的合计
	Total ItemAggregate
}
