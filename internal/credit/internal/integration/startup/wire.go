package startup

import (
	"github.com/ecodeclub/mirror/internal/credit"
	"github.com/ecodeclub/mq-api"
	"github.com/ego-component/egorm"
)

func InitModule(db *egorm.Component, q mq.MQ) (*credit.Module, error) {
	return credit.InitModule(db, q)
}

func InitService(db *egorm.Component) credit.Service {
	return credit.InitService(db)
}
