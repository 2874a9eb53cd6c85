package ioc

import (
	"github.com/ecodeclub/mirror/internal/cos"
	"github.com/ecodeclub/mirror/internal/pkg/snowflake"
	"github.com/gotomicro/ego/core/econf"
)

func InitCosHandler() *cos.Handler {
	type Config struct {
		SecretID  string `yaml:"secretID"`
		SecretKey string `yaml:"secretKey"`
		AppID     string `yaml:"appID"`
		Bucket    string `yaml:"bucket"`
		Region    string `yaml:"region"`
	}
	var cfg Config
	err := econf.UnmarshalKey("cos", &cfg)
	if err != nil {
		panic(err)
	}
	// app 0 给照片上传对象键
	sf, err := snowflake.NewCustomSnowFlake(0, 1)
	if err != nil {
		panic(err)
	}
	return cos.NewHandler(cfg.SecretID, cfg.SecretKey,
		cfg.AppID, cfg.Bucket, cfg.Region, sf)
}
