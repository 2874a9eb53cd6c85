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

type Credit struct {
	Uid               int64
	TotalAmount       int64
	LockedTotalAmount int64
	Logs              []CreditLog
}

// Available 当前可支配的积分数
func (c Credit) Available() int64 {
	return c.TotalAmount - c.LockedTotalAmount
}

type CreditLogStatus int64

const (
	// CreditLogStatusActive 已生效
	CreditLogStatusActive CreditLogStatus = 1
	// CreditLogStatusLocked 预扣中
	CreditLogStatusLocked CreditLogStatus = 2
	// CreditLogStatusInactive 已失效
	CreditLogStatusInactive CreditLogStatus = 3
)

type CreditLog struct {
	ID int64
	// Key 业务方提供的去重键, 同一个 Key 只会入账一次
	Key          string
	Uid          int64
	ChangeAmount int64
	Balance      int64
	Biz          string
	BizId        int64
	Desc         string
	Status       CreditLogStatus
	Ctime        int64
}
