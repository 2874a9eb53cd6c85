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

//go:build e2e

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/mirror/internal/abtest"
	"github.com/ecodeclub/mirror/internal/abtest/internal/integration/startup"
	"github.com/ecodeclub/mirror/internal/abtest/internal/web"
	"github.com/ecodeclub/mirror/internal/credit"
	"github.com/ecodeclub/mirror/internal/profile"
	"github.com/ecodeclub/mirror/internal/test"
	testioc "github.com/ecodeclub/mirror/internal/test/ioc"
	"github.com/ego-component/egorm"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/econf"
	"github.com/gotomicro/ego/server/egin"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testUID = int64(8001)

type ModuleTestSuite struct {
	suite.Suite
	db         *egorm.Component
	server     *egin.Component
	svc        abtest.Service
	creditSvc  credit.Service
	profileSvc profile.Service

	profileID int64
	photoIDs  []int64
	promptIDs []int64
}

func TestModule(t *testing.T) {
	suite.Run(t, new(ModuleTestSuite))
}

func (s *ModuleTestSuite) SetupSuite() {
	s.db = testioc.InitDB()
	ec := testioc.InitCache()
	q := testioc.InitMQ()

	creditModule, err := credit.InitModule(s.db, q)
	require.NoError(s.T(), err)
	s.creditSvc = creditModule.Svc

	profileModule := profile.InitModule(s.db)
	s.profileSvc = profileModule.Svc

	mou := startup.InitModule(s.db, ec, creditModule, profileModule)
	s.svc = mou.Svc

	econf.Set("server", map[string]any{"contextTimeout": "1s"})
	server := egin.Load("server").Build()
	server.Use(func(ctx *gin.Context) {
		ctx.Set("_session", session.NewMemorySession(session.Claims{
			Uid: testUID,
		}))
	})
	mou.Hdl.PrivateRoutes(server.Engine)
	s.server = server
}

func (s *ModuleTestSuite) TearDownSuite() {
	for _, table := range []string{"tests", "test_items", "credits", "credit_logs", "profiles", "photos", "prompts"} {
		err := s.db.Exec(fmt.Sprintf("DROP TABLE `%s`", table)).Error
		s.NoError(err)
	}
}

func (s *ModuleTestSuite) SetupTest() {
	t := s.T()
	id, err := s.profileSvc.Save(context.Background(), profile.Profile{
		Uid:      testUID,
		Nickname: "镜子",
	})
	require.NoError(t, err)
	s.profileID = id

	s.photoIDs = s.photoIDs[:0]
	for i := 0; i < 4; i++ {
		p, err := s.profileSvc.CreatePhoto(context.Background(), profile.Photo{
			ProfileID: id,
			Key:       fmt.Sprintf("photos/%d/p%d", testUID, i),
			Position:  i,
		})
		require.NoError(t, err)
		s.photoIDs = append(s.photoIDs, p.ID)
	}

	s.promptIDs = s.promptIDs[:0]
	for i := 0; i < 3; i++ {
		p, err := s.profileSvc.CreatePrompt(context.Background(), profile.Prompt{
			ProfileID: id,
			Question:  fmt.Sprintf("问题%d", i),
			Answer:    fmt.Sprintf("回答%d", i),
		})
		require.NoError(t, err)
		s.promptIDs = append(s.promptIDs, p.ID)
	}
}

func (s *ModuleTestSuite) TearDownTest() {
	for _, table := range []string{"tests", "test_items", "credits", "credit_logs", "profiles", "photos", "prompts"} {
		err := s.db.Exec(fmt.Sprintf("TRUNCATE TABLE `%s`", table)).Error
		s.NoError(err)
	}
}

func (s *ModuleTestSuite) addCredits(t *testing.T, amount int64, key string) {
	t.Helper()
	err := s.creditSvc.AddCredits(context.Background(), credit.Credit{
		Uid: testUID,
		Logs: []credit.CreditLog{
			{Key: key, Uid: testUID, ChangeAmount: amount, Biz: "credit", BizId: testUID},
		},
	})
	require.NoError(t, err)
}

func (s *ModuleTestSuite) TestService_CreateFullProfileTest() {
	t := s.T()
	s.addCredits(t, 10, "abtest-full-1")

	created, err := s.svc.CreateTest(context.Background(), testUID, abtest.TestTypeFullProfile, 0, 0)
	require.NoError(t, err)
	require.Len(t, created.SN, 32)
	require.Equal(t, int64(10), created.Cost)

	// 4 张照片 + 3 条提示
	got, err := s.svc.TestWithItems(context.Background(), created.SN)
	require.NoError(t, err)
	require.Len(t, got.Items, 7)
	for _, item := range got.Items {
		require.Equal(t, item.ItemID, item.OriginalItemID)
	}

	// 全部余额被消耗且无锁定残留
	c, err := s.creditSvc.GetCreditsByUID(context.Background(), testUID)
	require.NoError(t, err)
	require.Equal(t, int64(0), c.TotalAmount)
	require.Equal(t, int64(0), c.LockedTotalAmount)

	// 资料进入测试中状态
	p, err := s.profileSvc.ProfileByUID(context.Background(), testUID)
	require.NoError(t, err)
	require.Equal(t, profile.StatusTesting, p.Status)
}

func (s *ModuleTestSuite) TestService_CreateSingleItemTest() {
	t := s.T()
	s.addCredits(t, 10, "abtest-single-1")

	created, err := s.svc.CreateTest(context.Background(), testUID, abtest.TestTypeSinglePhoto, abtest.ItemKindPhoto, s.photoIDs[0])
	require.NoError(t, err)
	require.Equal(t, int64(5), created.Cost)

	got, err := s.svc.TestWithItems(context.Background(), created.SN)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.Equal(t, s.photoIDs[0], got.Items[0].ItemID)

	c, err := s.creditSvc.GetCreditsByUID(context.Background(), testUID)
	require.NoError(t, err)
	require.Equal(t, int64(5), c.TotalAmount)

	// 不存在的照片ID不可用
	_, err = s.svc.CreateTest(context.Background(), testUID, abtest.TestTypeSinglePhoto, abtest.ItemKindPhoto, 99999)
	require.ErrorIs(t, err, abtest.ErrItemNotFound)
}

func (s *ModuleTestSuite) TestService_CreateReplacementTest() {
	t := s.T()
	s.addCredits(t, 5, "abtest-repl-1")

	created, err := s.svc.CreateReplacementTest(context.Background(), testUID, abtest.ItemKindPrompt, s.promptIDs[0],
		abtest.ReplacementContent{
			Question: "新问题",
			Answer:   "新回答",
		})
	require.NoError(t, err)
	require.True(t, created.Replacement)
	require.Equal(t, int64(5), created.Cost)

	got, err := s.svc.TestWithItems(context.Background(), created.SN)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	// 两个条目共享原件ID, 且替换件是新建的
	require.Equal(t, s.promptIDs[0], got.Items[0].OriginalItemID)
	require.Equal(t, s.promptIDs[0], got.Items[1].OriginalItemID)
	require.Equal(t, s.promptIDs[0], got.Items[0].ItemID)
	require.NotEqual(t, s.promptIDs[0], got.Items[1].ItemID)

	// 替换件真实存在于资料里
	prompts, err := s.profileSvc.Prompts(context.Background(), s.profileID)
	require.NoError(t, err)
	require.Len(t, prompts, 4)

	c, err := s.creditSvc.GetCreditsByUID(context.Background(), testUID)
	require.NoError(t, err)
	require.Equal(t, int64(0), c.TotalAmount)
	require.Equal(t, int64(0), c.LockedTotalAmount)
}

func (s *ModuleTestSuite) TestService_CreateTest_InsufficientCredits() {
	t := s.T()
	s.addCredits(t, 4, "abtest-poor-1")

	_, err := s.svc.CreateTest(context.Background(), testUID, abtest.TestTypeSinglePrompt, abtest.ItemKindPrompt, s.promptIDs[0])
	require.ErrorIs(t, err, abtest.ErrInsufficientCredits)

	// 失败的创建不留下任何痕迹
	var count int64
	require.NoError(t, s.db.Table("tests").Count(&count).Error)
	require.Zero(t, count)

	c, err := s.creditSvc.GetCreditsByUID(context.Background(), testUID)
	require.NoError(t, err)
	require.Equal(t, int64(4), c.TotalAmount)
	require.Equal(t, int64(0), c.LockedTotalAmount)
}

func (s *ModuleTestSuite) TestService_CreateFullProfileTest_EmptyProfile() {
	t := s.T()
	emptyUID := testUID + 1
	_, err := s.profileSvc.Save(context.Background(), profile.Profile{
		Uid:      emptyUID,
		Nickname: "空白",
	})
	require.NoError(t, err)
	err = s.creditSvc.AddCredits(context.Background(), credit.Credit{
		Uid: emptyUID,
		Logs: []credit.CreditLog{
			{Key: "abtest-empty-1", Uid: emptyUID, ChangeAmount: 10, Biz: "credit", BizId: emptyUID},
		},
	})
	require.NoError(t, err)

	// 没有照片和提示的资料无法发起全资料测试
	_, err = s.svc.CreateTest(context.Background(), emptyUID, abtest.TestTypeFullProfile, 0, 0)
	require.ErrorIs(t, err, abtest.ErrItemNotFound)

	var count int64
	require.NoError(t, s.db.Table("tests").Count(&count).Error)
	require.Zero(t, count)

	// 一分钱都没扣, 也没有锁定残留
	c, err := s.creditSvc.GetCreditsByUID(context.Background(), emptyUID)
	require.NoError(t, err)
	require.Equal(t, int64(10), c.TotalAmount)
	require.Equal(t, int64(0), c.LockedTotalAmount)
}

func (s *ModuleTestSuite) TestService_CompleteTest() {
	t := s.T()
	s.addCredits(t, 5, "abtest-complete-1")

	created, err := s.svc.CreateTest(context.Background(), testUID, abtest.TestTypeSinglePhoto, abtest.ItemKindPhoto, s.photoIDs[0])
	require.NoError(t, err)

	completed, err := s.svc.Complete(context.Background(), testUID, created.SN)
	require.NoError(t, err)
	require.Equal(t, abtest.TestStatusComplete, completed.Status)
	require.NotZero(t, completed.CompletedAt)

	p, err := s.profileSvc.ProfileByUID(context.Background(), testUID)
	require.NoError(t, err)
	require.Equal(t, profile.StatusComplete, p.Status)

	// 再次完成返回状态非法, completed_at 不变
	_, err = s.svc.Complete(context.Background(), testUID, created.SN)
	require.ErrorIs(t, err, abtest.ErrInvalidTestStatus)

	again, err := s.svc.Detail(context.Background(), testUID, created.SN)
	require.NoError(t, err)
	require.Equal(t, completed.CompletedAt, again.CompletedAt)

	// 他人无法完成这个测试
	_, err = s.svc.Complete(context.Background(), testUID+1, created.SN)
	require.ErrorIs(t, err, abtest.ErrTestNotFound)
}

func (s *ModuleTestSuite) TestService_ListTests() {
	t := s.T()
	s.addCredits(t, 20, "abtest-list-1")

	first, err := s.svc.CreateTest(context.Background(), testUID, abtest.TestTypeSinglePhoto, abtest.ItemKindPhoto, s.photoIDs[0])
	require.NoError(t, err)
	second, err := s.svc.CreateTest(context.Background(), testUID, abtest.TestTypeSinglePrompt, abtest.ItemKindPrompt, s.promptIDs[0])
	require.NoError(t, err)

	tests, total, err := s.svc.List(context.Background(), testUID, 0, 1)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, tests, 1)
	// 最新的在前
	require.Equal(t, second.SN, tests[0].SN)

	tests, _, err = s.svc.List(context.Background(), testUID, 1, 1)
	require.NoError(t, err)
	require.Equal(t, first.SN, tests[0].SN)
}

func (s *ModuleTestSuite) TestHandler_CreateTest_RequestIDIdempotency() {
	t := s.T()
	s.addCredits(t, 20, "abtest-idem-1")

	newRequest := func() *http.Request {
		body, err := json.Marshal(web.CreateTestReq{
			RequestID: "req-idem-1",
			Type:      "single_photo",
			ItemKind:  "photo",
			ItemID:    s.photoIDs[0],
		})
		require.NoError(t, err)
		req, err := http.NewRequest(http.MethodPost, "/test/create", bytes.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	recorder := test.NewJSONResponseRecorder[web.Test]()
	s.server.ServeHTTP(recorder, newRequest())
	require.Equal(t, 200, recorder.Code)
	require.Equal(t, "single_photo", recorder.MustScan().Data.Type)

	// 同一个请求ID第二次提交被拒绝, 不再扣积分
	recorder2 := test.NewJSONResponseRecorder[web.Test]()
	s.server.ServeHTTP(recorder2, newRequest())
	require.NotEqual(t, 200, recorder2.Code)

	c, err := s.creditSvc.GetCreditsByUID(context.Background(), testUID)
	require.NoError(t, err)
	require.Equal(t, int64(15), c.TotalAmount)
}
