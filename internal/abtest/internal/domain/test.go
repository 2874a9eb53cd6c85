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

type TestType uint8

const (
	// TestTypeFullProfile 整份资料的全部照片和提示一起被测
	TestTypeFullProfile TestType = 1
	// TestTypeSinglePhoto 单张照片
	TestTypeSinglePhoto TestType = 2
	// TestTypeSinglePrompt 单条提示
	TestTypeSinglePrompt TestType = 3
)

// Cost 发起一次测试要消耗的积分数
func (t TestType) Cost() int64 {
	if t == TestTypeFullProfile {
		return 10
	}
	return 5
}

func (t TestType) IsValid() bool {
	return t == TestTypeFullProfile || t == TestTypeSinglePhoto || t == TestTypeSinglePrompt
}

func (t TestType) String() string {
	switch t {
	case TestTypeFullProfile:
		return "full_profile"
	case TestTypeSinglePhoto:
		return "single_photo"
	case TestTypeSinglePrompt:
		return "single_prompt"
	default:
		return "unknown"
	}
}

func ParseTestType(s string) (TestType, bool) {
	switch s {
	case "full_profile":
		return TestTypeFullProfile, true
	case "single_photo":
		return TestTypeSinglePhoto, true
	case "single_prompt":
		return TestTypeSinglePrompt, true
	default:
		return 0, false
	}
}

type TestStatus uint8

const (
	TestStatusPending TestStatus = 1
	// TestStatusInProgress 预留给后续的评分进度门槛
	TestStatusInProgress TestStatus = 2
	TestStatusComplete   TestStatus = 3
)

func (s TestStatus) ToUint8() uint8 {
	return uint8(s)
}

type ItemKind uint8

const (
	ItemKindPhoto  ItemKind = 1
	ItemKindPrompt ItemKind = 2
)

func (k ItemKind) IsValid() bool {
	return k == ItemKindPhoto || k == ItemKindPrompt
}

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

type TestItem struct {
	ID     int64
	TestID int64
	Kind   ItemKind
	ItemID int64
	// OriginalItemID 替换测试里原件和替换件共享原件ID, 普通测试等于 ItemID
	OriginalItemID int64
}

type Test struct {
	ID          int64
	SN          string
	Uid         int64
	Type        TestType
	Status      TestStatus
	Cost        int64
	Replacement bool
	StartedAt   int64
	CompletedAt int64
	Items       []TestItem
	Ctime       int64
	Utime       int64
}

// ContainsItem 判定条目是否属于本次测试
func (t Test) ContainsItem(kind ItemKind, itemID int64) bool {
	for _, it := range t.Items {
		if it.Kind == kind && it.ItemID == itemID {
			return true
		}
	}
	return false
}

// ReplacementContent 替换测试里候选替换件的内容
type ReplacementContent struct {
	PhotoKey string
	Question string
	Answer   string
}
