package ioc

import (
	"net/http"
	"strings"

	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/mirror/internal/abtest"
	"github.com/ecodeclub/mirror/internal/cos"
	"github.com/ecodeclub/mirror/internal/credit"
	"github.com/ecodeclub/mirror/internal/pkg/middleware"
	"github.com/ecodeclub/mirror/internal/profile"
	"github.com/ecodeclub/mirror/internal/rating"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/server/egin"
)

func initGinxServer(sp session.Provider,
	profileHdl *profile.Handler,
	creditHdl *credit.Handler,
	testHdl *abtest.Handler,
	ratingHdl *rating.Handler,
	cosHdl *cos.Handler,
) *egin.Component {
	session.SetDefaultProvider(sp)
	res := egin.Load("server.web").Build()
	res.Use(cors.New(cors.Config{
		ExposeHeaders:    []string{"X-Refresh-Token", "X-Access-Token"},
		AllowCredentials: true,
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowOriginFunc: func(origin string) bool {
			if strings.HasPrefix(origin, "http://localhost") {
				return true
			}
			// 只允许我的域名过来的
			return strings.Contains(origin, "mirror.example.com")
		},
	}))
	res.Use(middleware.NewMetricsBuilder().Build())
	res.GET("/hello", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "hello, world!")
	})
	cosHdl.PublicRoutes(res.Engine)
	// 登录校验
	res.Use(session.CheckLoginMiddleware())
	profileHdl.PrivateRoutes(res.Engine)
	creditHdl.PrivateRoutes(res.Engine)
	testHdl.PrivateRoutes(res.Engine)
	ratingHdl.PrivateRoutes(res.Engine)
	cosHdl.PrivateRoutes(res.Engine)
	return res
}
