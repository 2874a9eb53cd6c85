package web

import (
	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/mirror/internal/abtest/internal/domain"
)

type CreateTestReq struct {
	// RequestID 幂等键, 客户端为每次点击生成一个
	RequestID string `json:"requestId"`
	// Type full_profile / single_photo / single_prompt
	Type string `json:"type"`
	// ItemKind photo / prompt, 整份资料测试时忽略
	ItemKind string `json:"itemKind"`
	ItemID   int64  `json:"itemId"`
}

type CreateReplacementTestReq struct {
	RequestID string `json:"requestId"`
	ItemKind  string `json:"itemKind"`
	ItemID    int64  `json:"itemId"`
	// PhotoKey 替换照片的对象键, 照片类替换必填
	PhotoKey string `json:"photoKey"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type DetailTestReq struct {
	SN string `json:"sn"`
}

type ListTestsReq struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type CompleteTestReq struct {
	SN string `json:"sn"`
}

type Test struct {
	SN          string     `json:"sn"`
	Type        string     `json:"type"`
	Status      uint8      `json:"status"`
	Cost        int64      `json:"cost"`
	Replacement bool       `json:"replacement"`
	StartedAt   int64      `json:"startedAt"`
	CompletedAt int64      `json:"completedAt,omitempty"`
	Items       []TestItem `json:"items,omitempty"`
}

type TestItem struct {
	Kind           string `json:"kind"`
	ItemID         int64  `json:"itemId"`
	OriginalItemID int64  `json:"originalItemId"`
}

type ListTestsResp struct {
	Total int64  `json:"total"`
	Tests []Test `json:"tests,omitempty"`
}

func newTest(t domain.Test) Test {
	return Test{
		SN:          t.SN,
		Type:        t.Type.String(),
		Status:      t.Status.ToUint8(),
		Cost:        t.Cost,
		Replacement: t.Replacement,
		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,
		Items: slice.Map(t.Items, func(idx int, src domain.TestItem) TestItem {
			return TestItem{
				Kind:           src.Kind.String(),
				ItemID:         src.ItemID,
				OriginalItemID: src.OriginalItemID,
			}
		}),
	}
}
