package startup

import (
	"github.com/ecodeclub/mirror/internal/profile"
	"github.com/ego-component/egorm"
)

func InitModule(db *egorm.Component) *profile.Module {
	return profile.InitModule(db)
}

func InitService(db *egorm.Component) profile.Service {
	return profile.InitService(db)
}
