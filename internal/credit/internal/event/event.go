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

package event

const CreditIncreaseEvents = "credit_increase_events"

// CreditIncreaseEvent 各业务方增加积分的事件, Key 用于去重
type CreditIncreaseEvent struct {
	Key    string `json:"key"`
	Uid    int64  `json:"uid"`
	Amount int64  `json:"amount"`
	Biz    string `json:"biz"`
	BizId  int64  `json:"biz_id"`
	Action string `json:"action"`
}
