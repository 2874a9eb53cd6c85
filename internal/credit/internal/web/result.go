package web

import (
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/mirror/internal/credit/internal/errs"
)

var (
	systemErrorResult = ginx.Result{
		Code: errs.SystemError.Code,
		Msg:  errs.SystemError.Msg,
	}
	invalidAmountResult = ginx.Result{
		Code: errs.InvalidAmount.Code,
		Msg:  errs.InvalidAmount.Msg,
	}
)
