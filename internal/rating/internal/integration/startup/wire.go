package startup

import (
	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/mirror/internal/abtest"
	"github.com/ecodeclub/mirror/internal/profile"
	"github.com/ecodeclub/mirror/internal/rating"
	"github.com/ecodeclub/mq-api"
	"github.com/ego-component/egorm"
)

func InitModule(db *egorm.Component, ec ecache.Cache, q mq.MQ,
	abtestModule *abtest.Module, profileModule *profile.Module) (*rating.Module, error) {
	return rating.InitModule(db, ec, q, abtestModule, profileModule)
}
