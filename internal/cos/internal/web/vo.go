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

package web

type TmpAuthCodeReq struct {
	// Type 上传文件的 content-type, 例如 image/jpeg
	Type string `json:"type"`
}

type COSTmpAuthCode struct {
	// Key 服务端分配的对象键, 客户端只能上传到这个键
	Key          string `json:"key"`
	SecretId     string `json:"secretId"`
	SecretKey    string `json:"secretKey"`
	SessionToken string `json:"sessionToken"`
	StartTime    int    `json:"startTime"`
	ExpiredTime  int    `json:"expiredTime"`
}
