package web

import (
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/mirror/internal/profile/internal/errs"
)

var (
	systemErrorResult = ginx.Result{
		Code: errs.SystemError.Code,
		Msg:  errs.SystemError.Msg,
	}
	profileNotFoundResult = ginx.Result{
		Code: errs.ProfileNotFound.Code,
		Msg:  errs.ProfileNotFound.Msg,
	}
)
