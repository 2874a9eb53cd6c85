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

package cos

import (
	"github.com/ecodeclub/mirror/internal/cos/internal/web"
	"github.com/ecodeclub/mirror/internal/pkg/snowflake"
)

type Handler = web.Handler

func NewHandler(secretID, secretKey, appid, bucket,
	region string, sf snowflake.SnowFlake) *Handler {
	return web.NewHandler(secretID, secretKey, appid, bucket, region, sf)
}
