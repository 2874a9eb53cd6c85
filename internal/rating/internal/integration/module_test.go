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
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ecodeclub/mirror/internal/abtest"
	"github.com/ecodeclub/mirror/internal/credit"
	"github.com/ecodeclub/mirror/internal/profile"
	"github.com/ecodeclub/mirror/internal/rating"
	"github.com/ecodeclub/mirror/internal/rating/internal/domain"
	"github.com/ecodeclub/mirror/internal/rating/internal/integration/startup"
	testioc "github.com/ecodeclub/mirror/internal/test/ioc"
	"github.com/ecodeclub/mq-api"
	"github.com/ego-component/egorm"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	ownerUID  = int64(9001)
	raterUID  = int64(9002)
	rater2UID = int64(9003)

	rewardedAmount = int64(1)
)

type ModuleTestSuite struct {
	suite.Suite
	db         *egorm.Component
	mq         mq.MQ
	svc        rating.Service
	abtestSvc  abtest.Service
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
	s.mq = testioc.InitMQ()
	ec := testioc.InitCache()

	creditModule, err := credit.InitModule(s.db, s.mq)
	require.NoError(s.T(), err)
	s.creditSvc = creditModule.Svc

	profileModule := profile.InitModule(s.db)
	s.profileSvc = profileModule.Svc

	abtestModule := abtest.InitModule(s.db, ec, creditModule, profileModule)
	s.abtestSvc = abtestModule.Svc

	mou, err := startup.InitModule(s.db, ec, s.mq, abtestModule, profileModule)
	require.NoError(s.T(), err)
	s.svc = mou.Svc
}

func (s *ModuleTestSuite) TearDownSuite() {
	for _, table := range []string{"ratings", "tests", "test_items", "credits", "credit_logs", "profiles", "photos", "prompts"} {
		err := s.db.Exec(fmt.Sprintf("DROP TABLE `%s`", table)).Error
		s.NoError(err)
	}
}

func (s *ModuleTestSuite) SetupTest() {
	t := s.T()
	id, err := s.profileSvc.Save(context.Background(), profile.Profile{
		Uid:      ownerUID,
		Nickname: "被测者",
	})
	require.NoError(t, err)
	s.profileID = id

	s.photoIDs = s.photoIDs[:0]
	for i := 0; i < 2; i++ {
		p, err := s.profileSvc.CreatePhoto(context.Background(), profile.Photo{
			ProfileID: id,
			Key:       fmt.Sprintf("photos/%d/p%d", ownerUID, i),
			Position:  i,
		})
		require.NoError(t, err)
		s.photoIDs = append(s.photoIDs, p.ID)
	}
	s.promptIDs = s.promptIDs[:0]
	p, err := s.profileSvc.CreatePrompt(context.Background(), profile.Prompt{
		ProfileID: id,
		Question:  "周末做什么",
		Answer:    "爬山",
	})
	require.NoError(t, err)
	s.promptIDs = append(s.promptIDs, p.ID)

	err = s.creditSvc.AddCredits(context.Background(), credit.Credit{
		Uid: ownerUID,
		Logs: []credit.CreditLog{
			{Key: fmt.Sprintf("rating-suite-%s", s.T().Name()), Uid: ownerUID, ChangeAmount: 100, Biz: "credit", BizId: ownerUID},
		},
	})
	require.NoError(t, err)
}

func (s *ModuleTestSuite) TearDownTest() {
	for _, table := range []string{"ratings", "tests", "test_items", "credits", "credit_logs", "profiles", "photos", "prompts"} {
		err := s.db.Exec(fmt.Sprintf("TRUNCATE TABLE `%s`", table)).Error
		s.NoError(err)
	}
}

func (s *ModuleTestSuite) createPhotoTest(t *testing.T) abtest.Test {
	t.Helper()
	created, err := s.abtestSvc.CreateTest(context.Background(), ownerUID, abtest.TestTypeSinglePhoto, abtest.ItemKindPhoto, s.photoIDs[0])
	require.NoError(t, err)
	return created
}

func (s *ModuleTestSuite) TestService_SubmitAndAggregate() {
	t := s.T()
	created := s.createPhotoTest(t)

	r, err := s.svc.Submit(context.Background(), created.SN, domain.Rating{
		RaterID:   raterUID,
		ItemKind:  domain.ItemKindPhoto,
		ItemID:    s.photoIDs[0],
		Value:     domain.ValueKeep,
		Feedback:  "这张不错",
		Anonymous: true,
	})
	require.NoError(t, err)
	require.NotZero(t, r.ID)
	require.Equal(t, created.ID, r.TestID)

	aggr, err := s.svc.ItemAggregate(context.Background(), domain.ItemKindPhoto, s.photoIDs[0])
	require.NoError(t, err)
	require.Equal(t, int64(1), aggr.Keep)
	require.Equal(t, int64(1), aggr.Total)
	require.Equal(t, int64(1), aggr.Score)
}

func (s *ModuleTestSuite) TestService_Submit_CrossTestAggregation() {
	t := s.T()

	// 同一张照片先后发起两次测试, 汇总跨测试统计
	first := s.createPhotoTest(t)
	_, err := s.svc.Submit(context.Background(), first.SN, domain.Rating{
		RaterID:  raterUID,
		ItemKind: domain.ItemKindPhoto,
		ItemID:   s.photoIDs[0],
		Value:    domain.ValueKeep,
	})
	require.NoError(t, err)
	_, err = s.svc.Submit(context.Background(), first.SN, domain.Rating{
		RaterID:  rater2UID,
		ItemKind: domain.ItemKindPhoto,
		ItemID:   s.photoIDs[0],
		Value:    domain.ValueNeutral,
	})
	require.NoError(t, err)

	second := s.createPhotoTest(t)
	_, err = s.svc.Submit(context.Background(), second.SN, domain.Rating{
		RaterID:  raterUID,
		ItemKind: domain.ItemKindPhoto,
		ItemID:   s.photoIDs[0],
		Value:    domain.ValueDelete,
	})
	require.NoError(t, err)

	aggr, err := s.svc.ItemAggregate(context.Background(), domain.ItemKindPhoto, s.photoIDs[0])
	require.NoError(t, err)
	require.Equal(t, int64(1), aggr.Keep)
	require.Equal(t, int64(1), aggr.Neutral)
	require.Equal(t, int64(1), aggr.Remove)
	require.Equal(t, int64(3), aggr.Total)
	require.Equal(t, int64(0), aggr.Score)
}

func (s *ModuleTestSuite) TestService_Submit_Boundaries() {
	t := s.T()
	created := s.createPhotoTest(t)

	// 不存在的测试
	_, err := s.svc.Submit(context.Background(), "no-such-sn", domain.Rating{
		RaterID:  raterUID,
		ItemKind: domain.ItemKindPhoto,
		ItemID:   s.photoIDs[0],
		Value:    domain.ValueKeep,
	})
	require.ErrorIs(t, err, rating.ErrTestNotFound)

	// 条目存在但不属于该测试
	_, err = s.svc.Submit(context.Background(), created.SN, domain.Rating{
		RaterID:  raterUID,
		ItemKind: domain.ItemKindPhoto,
		ItemID:   s.photoIDs[1],
		Value:    domain.ValueKeep,
	})
	require.ErrorIs(t, err, rating.ErrItemNotInTest)

	// 发起人不能评价自己的测试
	_, err = s.svc.Submit(context.Background(), created.SN, domain.Rating{
		RaterID:  ownerUID,
		ItemKind: domain.ItemKindPhoto,
		ItemID:   s.photoIDs[0],
		Value:    domain.ValueKeep,
	})
	require.ErrorIs(t, err, rating.ErrCannotRateOwnTest)

	// 非法评分值
	_, err = s.svc.Submit(context.Background(), created.SN, domain.Rating{
		RaterID:  raterUID,
		ItemKind: domain.ItemKindPhoto,
		ItemID:   s.photoIDs[0],
		Value:    domain.Value(9),
	})
	require.ErrorIs(t, err, rating.ErrInvalidRatingValue)

	// 以上失败都不落库
	var count int64
	require.NoError(t, s.db.Table("ratings").Count(&count).Error)
	require.Zero(t, count)
}

func (s *ModuleTestSuite) TestService_Submit_OneRatingPerItem() {
	t := s.T()
	created, err := s.abtestSvc.CreateTest(context.Background(), ownerUID, abtest.TestTypeFullProfile, 0, 0)
	require.NoError(t, err)

	_, err = s.svc.Submit(context.Background(), created.SN, domain.Rating{
		RaterID:  raterUID,
		ItemKind: domain.ItemKindPhoto,
		ItemID:   s.photoIDs[0],
		Value:    domain.ValueKeep,
	})
	require.NoError(t, err)

	// 同一个测试里同一条目只能评一次
	_, err = s.svc.Submit(context.Background(), created.SN, domain.Rating{
		RaterID:  raterUID,
		ItemKind: domain.ItemKindPhoto,
		ItemID:   s.photoIDs[0],
		Value:    domain.ValueDelete,
	})
	require.ErrorIs(t, err, rating.ErrAlreadyRated)

	// 其余条目不受影响
	_, err = s.svc.Submit(context.Background(), created.SN, domain.Rating{
		RaterID:  raterUID,
		ItemKind: domain.ItemKindPhoto,
		ItemID:   s.photoIDs[1],
		Value:    domain.ValueKeep,
	})
	require.NoError(t, err)
	_, err = s.svc.Submit(context.Background(), created.SN, domain.Rating{
		RaterID:  raterUID,
		ItemKind: domain.ItemKindPrompt,
		ItemID:   s.promptIDs[0],
		Value:    domain.ValueNeutral,
	})
	require.NoError(t, err)

	// 拒绝的那次没有落库
	aggr, err := s.svc.ItemAggregate(context.Background(), domain.ItemKindPhoto, s.photoIDs[0])
	require.NoError(t, err)
	require.Equal(t, int64(1), aggr.Total)
	require.Equal(t, int64(1), aggr.Keep)
}

func (s *ModuleTestSuite) TestService_Submit_RewardsRater() {
	t := s.T()
	created := s.createPhotoTest(t)

	_, err := s.svc.Submit(context.Background(), created.SN, domain.Rating{
		RaterID:  raterUID,
		ItemKind: domain.ItemKindPhoto,
		ItemID:   s.photoIDs[0],
		Value:    domain.ValueKeep,
	})
	require.NoError(t, err)

	// 积分模块的后台消费者异步消费奖励事件
	require.Eventually(t, func() bool {
		c, err := s.creditSvc.GetCreditsByUID(context.Background(), raterUID)
		return err == nil && c.TotalAmount == rewardedAmount
	}, 3*time.Second, 100*time.Millisecond)
}

func (s *ModuleTestSuite) TestService_ProfileSummary() {
	t := s.T()
	created, err := s.abtestSvc.CreateTest(context.Background(), ownerUID, abtest.TestTypeFullProfile, 0, 0)
	require.NoError(t, err)

	for _, photoID := range s.photoIDs {
		_, err = s.svc.Submit(context.Background(), created.SN, domain.Rating{
			RaterID:  raterUID,
			ItemKind: domain.ItemKindPhoto,
			ItemID:   photoID,
			Value:    domain.ValueKeep,
		})
		require.NoError(t, err)
	}
	_, err = s.svc.Submit(context.Background(), created.SN, domain.Rating{
		RaterID:  raterUID,
		ItemKind: domain.ItemKindPrompt,
		ItemID:   s.promptIDs[0],
		Value:    domain.ValueDelete,
	})
	require.NoError(t, err)

	summary, err := s.svc.ProfileSummary(context.Background(), ownerUID)
	require.NoError(t, err)
	require.Len(t, summary.Photos, 2)
	require.Len(t, summary.Prompts, 1)
	require.Equal(t, int64(2), summary.Total.Keep)
	require.Equal(t, int64(1), summary.Total.Remove)
	require.Equal(t, int64(3), summary.Total.Total)
	require.Equal(t, int64(1), summary.Total.Score)
}

func (s *ModuleTestSuite) TestService_ItemDetail() {
	t := s.T()
	created := s.createPhotoTest(t)

	_, err := s.svc.Submit(context.Background(), created.SN, domain.Rating{
		RaterID:   raterUID,
		ItemKind:  domain.ItemKindPhoto,
		ItemID:    s.photoIDs[0],
		Value:     domain.ValueKeep,
		Feedback:  "保留",
		Anonymous: true,
	})
	require.NoError(t, err)
	_, err = s.svc.Submit(context.Background(), created.SN, domain.Rating{
		RaterID:   rater2UID,
		ItemKind:  domain.ItemKindPhoto,
		ItemID:    s.photoIDs[0],
		Value:     domain.ValueDelete,
		Feedback:  "换一张",
		Anonymous: false,
	})
	require.NoError(t, err)

	aggr, ratings, err := s.svc.ItemDetail(context.Background(), ownerUID, domain.ItemKindPhoto, s.photoIDs[0], 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(2), aggr.Total)
	require.Len(t, ratings, 2)
	// 最新在前; 匿名评分不暴露评分人
	require.Equal(t, rater2UID, ratings[0].RaterID)
	require.Zero(t, ratings[1].RaterID)

	// 只能查看自己的条目
	_, _, err = s.svc.ItemDetail(context.Background(), ownerUID, domain.ItemKindPhoto, 99999, 0, 10)
	require.ErrorIs(t, err, rating.ErrItemNotFound)
}
