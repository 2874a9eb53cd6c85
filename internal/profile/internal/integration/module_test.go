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
	"github.com/ecodeclub/mirror/internal/profile"
	"github.com/ecodeclub/mirror/internal/profile/internal/integration/startup"
	"github.com/ecodeclub/mirror/internal/profile/internal/web"
	"github.com/ecodeclub/mirror/internal/test"
	testioc "github.com/ecodeclub/mirror/internal/test/ioc"
	"github.com/ego-component/egorm"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/econf"
	"github.com/gotomicro/ego/server/egin"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testUID = int64(7001)

type ModuleTestSuite struct {
	suite.Suite
	db     *egorm.Component
	server *egin.Component
	svc    profile.Service
}

func TestModule(t *testing.T) {
	suite.Run(t, new(ModuleTestSuite))
}

func (s *ModuleTestSuite) SetupSuite() {
	s.db = testioc.InitDB()
	mou := startup.InitModule(s.db)
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
	for _, table := range []string{"profiles", "photos", "prompts"} {
		err := s.db.Exec(fmt.Sprintf("DROP TABLE `%s`", table)).Error
		s.NoError(err)
	}
}

func (s *ModuleTestSuite) TearDownTest() {
	for _, table := range []string{"profiles", "photos", "prompts"} {
		err := s.db.Exec(fmt.Sprintf("TRUNCATE TABLE `%s`", table)).Error
		s.NoError(err)
	}
}

func (s *ModuleTestSuite) TestHandler_SaveAndDetail() {
	t := s.T()

	body, err := json.Marshal(web.SaveReq{Nickname: "镜子", Bio: "先看看照片"})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, "/profile/save", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	recorder := test.NewJSONResponseRecorder[int64]()
	s.server.ServeHTTP(recorder, req)
	require.Equal(t, 200, recorder.Code)
	id := recorder.MustScan().Data
	require.NotZero(t, id)

	// 同一个用户重复保存是更新, 不产生第二份资料
	body, err = json.Marshal(web.SaveReq{Nickname: "镜子2", Bio: "先看看照片"})
	require.NoError(t, err)
	req, err = http.NewRequest(http.MethodPost, "/profile/save", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	recorder = test.NewJSONResponseRecorder[int64]()
	s.server.ServeHTTP(recorder, req)
	require.Equal(t, 200, recorder.Code)
	require.Equal(t, id, recorder.MustScan().Data)

	_, err = s.svc.CreatePhoto(context.Background(), profile.Photo{
		ProfileID: id,
		Key:       fmt.Sprintf("photos/%d/1", testUID),
		Position:  0,
	})
	require.NoError(t, err)
	_, err = s.svc.CreatePrompt(context.Background(), profile.Prompt{
		ProfileID: id,
		Question:  "周末做什么",
		Answer:    "爬山",
	})
	require.NoError(t, err)

	req, err = http.NewRequest(http.MethodPost, "/profile/detail", nil)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	detailRecorder := test.NewJSONResponseRecorder[web.Profile]()
	s.server.ServeHTTP(detailRecorder, req)
	require.Equal(t, 200, detailRecorder.Code)
	p := detailRecorder.MustScan().Data
	require.Equal(t, "镜子2", p.Nickname)
	require.Equal(t, uint8(profile.StatusActive), p.Status)
	require.Len(t, p.Photos, 1)
	require.Len(t, p.Prompts, 1)
}

func (s *ModuleTestSuite) TestHandler_Detail_NotFound() {
	t := s.T()
	req, err := http.NewRequest(http.MethodPost, "/profile/detail", nil)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	recorder := test.NewJSONResponseRecorder[web.Profile]()
	s.server.ServeHTTP(recorder, req)
	res := recorder.MustScan()
	require.Equal(t, 502002, res.Code)
}

func (s *ModuleTestSuite) TestService_ItemOwnership() {
	t := s.T()
	id, err := s.svc.Save(context.Background(), profile.Profile{
		Uid:      testUID,
		Nickname: "镜子",
	})
	require.NoError(t, err)
	otherID, err := s.svc.Save(context.Background(), profile.Profile{
		Uid:      testUID + 1,
		Nickname: "别人",
	})
	require.NoError(t, err)

	photo, err := s.svc.CreatePhoto(context.Background(), profile.Photo{
		ProfileID: id,
		Key:       fmt.Sprintf("photos/%d/1", testUID),
	})
	require.NoError(t, err)

	_, err = s.svc.Photo(context.Background(), id, photo.ID)
	require.NoError(t, err)
	// 别人的资料拿不到这张照片
	_, err = s.svc.Photo(context.Background(), otherID, photo.ID)
	require.ErrorIs(t, err, profile.ErrItemNotFound)

	_, err = s.svc.Prompt(context.Background(), id, 99999)
	require.ErrorIs(t, err, profile.ErrItemNotFound)
}

func (s *ModuleTestSuite) TestService_UpdateStatus() {
	t := s.T()
	id, err := s.svc.Save(context.Background(), profile.Profile{
		Uid:      testUID,
		Nickname: "镜子",
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	err = s.svc.UpdateStatus(context.Background(), testUID, profile.StatusTesting)
	require.NoError(t, err)
	p, err := s.svc.ProfileByUID(context.Background(), testUID)
	require.NoError(t, err)
	require.Equal(t, profile.StatusTesting, p.Status)
}
