//go:build wireinject

package ioc

import (
	"github.com/ecodeclub/mirror/internal/abtest"
	"github.com/ecodeclub/mirror/internal/credit"
	"github.com/ecodeclub/mirror/internal/profile"
	"github.com/ecodeclub/mirror/internal/rating"
	"github.com/google/wire"
)

var BaseSet = wire.NewSet(InitDB, InitCache, InitRedis, InitMQ)

func InitApp() (*App, error) {
	wire.Build(wire.Struct(new(App), "*"),
		BaseSet,
		InitSession,
		profile.InitModule,
		credit.InitModule,
		abtest.InitModule,
		rating.InitModule,
		wire.FieldsOf(new(*profile.Module), "Hdl"),
		wire.FieldsOf(new(*credit.Module), "Svc", "Hdl"),
		wire.FieldsOf(new(*abtest.Module), "Hdl"),
		wire.FieldsOf(new(*rating.Module), "Hdl"),
		InitCosHandler,
		initCloseTimeoutLockedCreditsJob,
		initCronJobs,
		initGinxServer)
	return new(App), nil
}
