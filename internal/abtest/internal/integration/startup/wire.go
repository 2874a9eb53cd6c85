package startup

import (
	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/mirror/internal/abtest"
	"github.com/ecodeclub/mirror/internal/credit"
	"github.com/ecodeclub/mirror/internal/profile"
	"github.com/ego-component/egorm"
)

func InitModule(db *egorm.Component, ec ecache.Cache,
	creditModule *credit.Module, profileModule *profile.Module) *abtest.Module {
	return abtest.InitModule(db, ec, creditModule, profileModule)
}
