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
package integration

import (
	"os"
	"strings"
	"testing"

	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/mirror/internal/cos/internal/web"
	"github.com/ecodeclub/mirror/internal/pkg/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type HandlerTestSuite struct {
	suite.Suite
	handler *web.Handler
}

func (s *HandlerTestSuite) SetupSuite() {
	appID := os.Getenv("COS_APP_ID")
	bucket := os.Getenv("COS_BUCKET")
	secretKey := os.Getenv("COS_SECRET_KEY")
	secretID := os.Getenv("COS_SECRET_ID")
	if secretID == "" {
		s.T().Skip("缺少 COS 凭证")
	}
	region := "ap-guangzhou"
	sf, err := snowflake.NewCustomSnowFlake(0, 1)
	require.NoError(s.T(), err)
	s.handler = web.NewHandler(secretID, secretKey, appID,
		bucket, region, sf)
}

func (s *HandlerTestSuite) TestTmpAuthCode() {
	sess := session.NewMemorySession(session.Claims{Uid: 2733})
	res, err := s.handler.TempAuthCode(&ginx.Context{},
		web.TmpAuthCodeReq{Type: "image/jpeg"}, sess)
	require.NoError(s.T(), err)
	code := res.Data.(web.COSTmpAuthCode)
	// 对象键必须落在该用户自己的前缀下
	assert.True(s.T(), strings.HasPrefix(code.Key, "photos/2733/"))
	assert.NotEmpty(s.T(), code.SecretKey)
}

func TestHandler(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
