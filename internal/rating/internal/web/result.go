package web

import (
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/mirror/internal/rating/internal/errs"
)

var (
	systemErrorResult = ginx.Result{
		Code: errs.SystemError.Code,
		Msg:  errs.SystemError.Msg,
	}
	testNotFoundResult = ginx.Result{
		Code: errs.TestNotFound.Code,
		Msg:  errs.TestNotFound.Msg,
	}
	invalidRatingValueResult = ginx.Result{
		Code: errs.InvalidRatingValue.Code,
		Msg:  errs.InvalidRatingValue.Msg,
	}
	itemNotInTestResult = ginx.Result{
		Code: errs.ItemNotInTest.Code,
		Msg:  errs.ItemNotInTest.Msg,
	}
	cannotRateOwnTestResult = ginx.Result{
		Code: errs.CannotRateOwnTest.Code,
		Msg:  errs.CannotRateOwnTest.Msg,
	}
	itemNotFoundResult = ginx.Result{
		Code: errs.ItemNotFound.Code,
		Msg:  errs.ItemNotFound.Msg,
	}
	profileNotFoundResult = ginx.Result{
		Code: errs.ProfileNotFound.Code,
		Msg:  errs.ProfileNotFound.Msg,
	}
	alreadyRatedResult = ginx.Result{
		Code: errs.AlreadyRated.Code,
		Msg:  errs.AlreadyRated.Msg,
	}
)
