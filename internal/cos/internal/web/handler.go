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

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/mirror/internal/pkg/snowflake"
	"github.com/gin-gonic/gin"
	sts "github.com/tencentyun/qcloud-cos-sts-sdk/go"
)

var _ ginx.Handler = &Handler{}

// appPhoto 照片上传对象键使用的雪花ID分区
const appPhoto = uint(0)

type Handler struct {
	client *sts.Client
	sf     snowflake.SnowFlake
	// 临时密钥的权限
	actions []string

	appID  string
	bucket string
	region string
}

func NewHandler(secretID, secretKey, appid, bucket,
	region string, sf snowflake.SnowFlake) *Handler {
	c := sts.NewClient(
		secretID,
		secretKey,
		http.DefaultClient,
	)
	return &Handler{client: c,
		sf:     sf,
		region: region,
		appID:  appid,
		bucket: bucket,
		actions: []string{
			// 简单上传
			"name/cos:PostObject",
			"name/cos:PutObject",
			// 分片上传
			"name/cos:InitiateMultipartUpload",
			"name/cos:ListMultipartUploads",
			"name/cos:ListParts",
			"name/cos:UploadPart",
			"name/cos:CompleteMultipartUpload",
		},
	}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	cos := server.Group("/cos")
	cos.POST("/authorization", ginx.BS[TmpAuthCodeReq](h.TempAuthCode))
}

func (h *Handler) PublicRoutes(server *gin.Engine) {
}

// TempAuthCode 签发只能上传到当前登录用户照片前缀的临时密钥。
// 对象键由服务端分配, 客户端不能指定, 避免越权写别人的目录
func (h *Handler) TempAuthCode(ctx *ginx.Context, req TmpAuthCodeReq, sess session.Session) (ginx.Result, error) {
	uid := sess.Claims().Uid
	id, err := h.sf.Generate(appPhoto)
	if err != nil {
		return systemErrorResult, fmt.Errorf("生成对象键失败: %w", err)
	}
	key := fmt.Sprintf("photos/%d/%d", uid, id.Int64())

	// 策略概述 https://cloud.tencent.com/document/product/436/18023
	// 存储桶的命名格式为 BucketName-APPID，此处填写的 bucket 必须为此格式
	resource := fmt.Sprintf("qcs::cos:%s:uid/%s:%s-%s/%s",
		h.region, h.appID,
		h.bucket, h.appID, key)
	opt := &sts.CredentialOptions{
		DurationSeconds: int64(time.Hour.Seconds()),
		Region:          h.region,
		Policy: &sts.CredentialPolicy{
			Statement: []sts.CredentialPolicyStatement{
				{
					Action: h.actions,
					Effect: "allow",
					Resource: []string{
						resource,
					},
					Condition: map[string]map[string]interface{}{
						"string_equal": {
							"cos:content-type": req.Type,
						},
					},
				},
			},
		},
	}

	res, err := h.client.GetCredential(opt)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: COSTmpAuthCode{
			Key:          key,
			SecretId:     res.Credentials.TmpSecretID,
			SecretKey:    res.Credentials.TmpSecretKey,
			SessionToken: res.Credentials.SessionToken,
			StartTime:    res.StartTime,
			ExpiredTime:  res.ExpiredTime,
		},
	}, nil
}
