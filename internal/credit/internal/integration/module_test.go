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
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/ecodeclub/mirror/internal/credit/internal/domain"
	"github.com/ecodeclub/mirror/internal/credit/internal/event"
	"github.com/ecodeclub/mirror/internal/credit/internal/integration/startup"
	"github.com/ecodeclub/mirror/internal/credit/internal/job"
	"github.com/ecodeclub/mirror/internal/credit/internal/service"
	testioc "github.com/ecodeclub/mirror/internal/test/ioc"
	"github.com/ecodeclub/mq-api"
	"github.com/ego-component/egorm"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

type ModuleTestSuite struct {
	suite.Suite
	db  *egorm.Component
	mq  mq.MQ
	svc service.Service
}

func TestModule(t *testing.T) {
	suite.Run(t, new(ModuleTestSuite))
}

func (s *ModuleTestSuite) SetupSuite() {
	s.db = testioc.InitDB()
	s.mq = testioc.InitMQ()
	s.svc = startup.InitService(s.db)
}

func (s *ModuleTestSuite) TearDownSuite() {
	err := s.db.Exec("DROP TABLE `credits`").Error
	s.NoError(err)
	err = s.db.Exec("DROP TABLE `credit_logs`").Error
	s.NoError(err)
}

func (s *ModuleTestSuite) TearDownTest() {
	err := s.db.Exec("TRUNCATE TABLE `credits`").Error
	s.NoError(err)
	err = s.db.Exec("TRUNCATE TABLE `credit_logs`").Error
	s.NoError(err)
}

func (s *ModuleTestSuite) addCredits(t *testing.T, uid, amount int64, key string) {
	t.Helper()
	err := s.svc.AddCredits(context.Background(), domain.Credit{
		Uid: uid,
		Logs: []domain.CreditLog{
			{
				Key:          key,
				Uid:          uid,
				ChangeAmount: amount,
				Biz:          "credit",
				BizId:        uid,
				Desc:         "充值",
			},
		},
	})
	require.NoError(t, err)
}

func (s *ModuleTestSuite) TestService_AddCreditsAndGetCreditsByUID() {
	t := s.T()
	uid := int64(7001)

	s.addCredits(t, uid, 100, "credit-add-7001-1")
	s.addCredits(t, uid, 50, "credit-add-7001-2")

	c, err := s.svc.GetCreditsByUID(context.Background(), uid)
	require.NoError(t, err)
	require.Equal(t, int64(150), c.TotalAmount)
	require.Equal(t, int64(0), c.LockedTotalAmount)
	require.Equal(t, int64(150), c.Available())

	logs, err := s.svc.ListCreditLogsByUID(context.Background(), uid, 0, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	// 倒序返回, 最新一条在前
	require.Equal(t, int64(50), logs[0].ChangeAmount)
	require.Equal(t, domain.CreditLogStatusActive, logs[0].Status)
}

func (s *ModuleTestSuite) TestService_AddCredits_DuplicatedKey() {
	t := s.T()
	uid := int64(7002)

	s.addCredits(t, uid, 100, "credit-add-7002-1")
	err := s.svc.AddCredits(context.Background(), domain.Credit{
		Uid: uid,
		Logs: []domain.CreditLog{
			{
				Key:          "credit-add-7002-1",
				Uid:          uid,
				ChangeAmount: 100,
				Biz:          "credit",
				BizId:        uid,
			},
		},
	})
	require.ErrorIs(t, err, service.ErrDuplicatedCreditLog)

	// 重复投递不会入账
	c, err := s.svc.GetCreditsByUID(context.Background(), uid)
	require.NoError(t, err)
	require.Equal(t, int64(100), c.TotalAmount)
}

func (s *ModuleTestSuite) TestService_TryDeductCredits_ConfirmFlow() {
	t := s.T()
	uid := int64(7003)
	s.addCredits(t, uid, 100, "credit-add-7003-1")

	tid, err := s.svc.TryDeductCredits(context.Background(), domain.Credit{
		Uid: uid,
		Logs: []domain.CreditLog{
			{
				Key:          "deduct-7003-1",
				Uid:          uid,
				ChangeAmount: -30,
				Biz:          "ratingTest",
				BizId:        1,
				Desc:         "发起测试",
			},
		},
	})
	require.NoError(t, err)
	require.NotZero(t, tid)

	// 预扣阶段总额不变, 锁定增加
	c, err := s.svc.GetCreditsByUID(context.Background(), uid)
	require.NoError(t, err)
	require.Equal(t, int64(100), c.TotalAmount)
	require.Equal(t, int64(30), c.LockedTotalAmount)
	require.Equal(t, int64(70), c.Available())

	require.NoError(t, s.svc.ConfirmDeductCredits(context.Background(), uid, tid))

	c, err = s.svc.GetCreditsByUID(context.Background(), uid)
	require.NoError(t, err)
	require.Equal(t, int64(70), c.TotalAmount)
	require.Equal(t, int64(0), c.LockedTotalAmount)

	// 重复确认同一笔预扣会失败
	require.Error(t, s.svc.ConfirmDeductCredits(context.Background(), uid, tid))
}

func (s *ModuleTestSuite) TestService_TryDeductCredits_CancelFlow() {
	t := s.T()
	uid := int64(7004)
	s.addCredits(t, uid, 100, "credit-add-7004-1")

	tid, err := s.svc.TryDeductCredits(context.Background(), domain.Credit{
		Uid: uid,
		Logs: []domain.CreditLog{
			{
				Key:          "deduct-7004-1",
				Uid:          uid,
				ChangeAmount: -40,
				Biz:          "ratingTest",
				BizId:        2,
			},
		},
	})
	require.NoError(t, err)

	require.NoError(t, s.svc.CancelDeductCredits(context.Background(), uid, tid))

	c, err := s.svc.GetCreditsByUID(context.Background(), uid)
	require.NoError(t, err)
	require.Equal(t, int64(100), c.TotalAmount)
	require.Equal(t, int64(0), c.LockedTotalAmount)
}

func (s *ModuleTestSuite) TestService_TryDeductCredits_NotEnough() {
	t := s.T()
	uid := int64(7005)
	s.addCredits(t, uid, 10, "credit-add-7005-1")

	_, err := s.svc.TryDeductCredits(context.Background(), domain.Credit{
		Uid: uid,
		Logs: []domain.CreditLog{
			{
				Key:          "deduct-7005-1",
				Uid:          uid,
				ChangeAmount: -11,
				Biz:          "ratingTest",
				BizId:        3,
			},
		},
	})
	require.ErrorIs(t, err, service.ErrCreditNotEnough)

	// 未知用户同样视为积分不足
	_, err = s.svc.TryDeductCredits(context.Background(), domain.Credit{
		Uid: 99999,
		Logs: []domain.CreditLog{
			{
				Key:          "deduct-99999-1",
				Uid:          99999,
				ChangeAmount: -1,
				Biz:          "ratingTest",
				BizId:        4,
			},
		},
	})
	require.ErrorIs(t, err, service.ErrCreditNotEnough)
}

func (s *ModuleTestSuite) TestService_TryDeductCredits_Concurrent() {
	t := s.T()
	uid := int64(7006)
	s.addCredits(t, uid, 50, "credit-add-7006-1")

	// 10 个并发预扣各 10 分, 最多 5 个成功
	var eg errgroup.Group
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		i := i
		eg.Go(func() error {
			_, err := s.svc.TryDeductCredits(context.Background(), domain.Credit{
				Uid: uid,
				Logs: []domain.CreditLog{
					{
						Key:          fmt.Sprintf("deduct-7006-%d", i),
						Uid:          uid,
						ChangeAmount: -10,
						Biz:          "ratingTest",
						BizId:        int64(i),
					},
				},
			})
			results <- err
			return nil
		})
	}
	require.NoError(t, eg.Wait())
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		}
	}
	require.LessOrEqual(t, succeeded, 5)

	c, err := s.svc.GetCreditsByUID(context.Background(), uid)
	require.NoError(t, err)
	require.Equal(t, int64(50), c.TotalAmount)
	require.Equal(t, int64(succeeded*10), c.LockedTotalAmount)
	require.GreaterOrEqual(t, c.Available(), int64(0))
}

func (s *ModuleTestSuite) TestConsumer_ConsumeCreditIncreaseEvent() {
	t := s.T()
	producer, err := s.mq.Producer("credit_increase_events")
	require.NoError(t, err)

	consumer, err := event.NewCreditIncreaseConsumer(s.svc, s.mq)
	require.NoError(t, err)

	evt := event.CreditIncreaseEvent{
		Key:    "evt-7007-1",
		Uid:    7007,
		Amount: 25,
		Biz:    "rating",
		BizId:  11,
		Action: "完成评分",
	}
	marshal, err := json.Marshal(evt)
	require.NoError(t, err)
	_, err = producer.Produce(context.Background(), &mq.Message{Value: marshal})
	require.NoError(t, err)

	require.NoError(t, consumer.Consume(context.Background()))

	c, err := s.svc.GetCreditsByUID(context.Background(), 7007)
	require.NoError(t, err)
	require.Equal(t, int64(25), c.TotalAmount)

	// 重复投递同一事件, 消费成功但不重复入账
	_, err = producer.Produce(context.Background(), &mq.Message{Value: marshal})
	require.NoError(t, err)
	require.NoError(t, consumer.Consume(context.Background()))

	c, err = s.svc.GetCreditsByUID(context.Background(), 7007)
	require.NoError(t, err)
	require.Equal(t, int64(25), c.TotalAmount)
}

func (s *ModuleTestSuite) TestJob_CloseTimeoutLockedCredits() {
	t := s.T()
	uid := int64(7008)
	s.addCredits(t, uid, 100, "credit-add-7008-1")

	_, err := s.svc.TryDeductCredits(context.Background(), domain.Credit{
		Uid: uid,
		Logs: []domain.CreditLog{
			{
				Key:          "deduct-7008-1",
				Uid:          uid,
				ChangeAmount: -60,
				Biz:          "ratingTest",
				BizId:        5,
			},
		},
	})
	require.NoError(t, err)

	// 把预扣流水的创建时间改到 10 分钟前, 模拟业务方一直未终结
	err = s.db.Exec("UPDATE `credit_logs` SET ctime = ? WHERE `key` = ?",
		time.Now().Add(-10*time.Minute).UnixMilli(), "deduct-7008-1").Error
	require.NoError(t, err)

	j := job.NewCloseTimeoutLockedCreditsJob(s.svc, 1, 10, 100)
	require.Equal(t, "CloseTimeoutLockedCreditsJob", j.Name())
	require.NoError(t, j.Run(context.Background()))

	c, err := s.svc.GetCreditsByUID(context.Background(), uid)
	require.NoError(t, err)
	require.Equal(t, int64(100), c.TotalAmount)
	require.Equal(t, int64(0), c.LockedTotalAmount)
}
