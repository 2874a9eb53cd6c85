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

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/mirror/internal/rating/internal/domain"
)

// 汇总允许短暂滞后, 过期时间压得很短
const itemAggregateExpiration = 30 * time.Second

type ItemAggregateCache struct {
	cache ecache.Cache
}

func NewItemAggregateCache(cache ecache.Cache) *ItemAggregateCache {
	return &ItemAggregateCache{cache: cache}
}

func (c *ItemAggregateCache) Get(ctx context.Context, kind domain.ItemKind, itemID int64) (domain.ItemAggregate, error) {
	var res domain.ItemAggregate
	err := c.cache.Get(ctx, c.key(kind, itemID)).JSONScan(&res)
	return res, err
}

func (c *ItemAggregateCache) Set(ctx context.Context, aggr domain.ItemAggregate) error {
	data, err := json.Marshal(aggr)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, c.key(aggr.ItemKind, aggr.ItemID), string(data), itemAggregateExpiration)
}

func (c *ItemAggregateCache) Delete(ctx context.Context, kind domain.ItemKind, itemID int64) error {
	_, err := c.cache.Delete(ctx, c.key(kind, itemID))
	return err
}

func (c *ItemAggregateCache) key(kind domain.ItemKind, itemID int64) string {
	return fmt.Sprintf("rating:aggregate:%d:%d", kind, itemID)
}
