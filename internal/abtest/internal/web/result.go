package web

import (
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/mirror/internal/abtest/internal/errs"
)

var (
	systemErrorResult = ginx.Result{
		Code: errs.SystemError.Code,
		Msg:  errs.SystemError.Msg,
	}
	insufficientCreditsResult = ginx.Result{
		Code: errs.InsufficientCredits.Code,
		Msg:  errs.InsufficientCredits.Msg,
	}
	profileNotFoundResult = ginx.Result{
		Code: errs.ProfileNotFound.Code,
		Msg:  errs.ProfileNotFound.Msg,
	}
	itemNotFoundResult = ginx.Result{
		Code: errs.ItemNotFound.Code,
		Msg:  errs.ItemNotFound.Msg,
	}
	invalidItemTypeResult = ginx.Result{
		Code: errs.InvalidItemType.Code,
		Msg:  errs.InvalidItemType.Msg,
	}
	testNotFoundResult = ginx.Result{
		Code: errs.TestNotFound.Code,
		Msg:  errs.TestNotFound.Msg,
	}
	invalidTestStatusResult = ginx.Result{
		Code: errs.InvalidTestStatus.Code,
		Msg:  errs.InvalidTestStatus.Msg,
	}
)
