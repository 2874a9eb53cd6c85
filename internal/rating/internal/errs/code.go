package errs

var (
	SystemError        = ErrorCode{Code: 506001, Msg: "系统错误"}
	TestNotFound       = ErrorCode{Code: 506002, Msg: "测试不存在"}
	InvalidRatingValue = ErrorCode{Code: 506003, Msg: "评分值非法"}
	// ItemNotInTest 评分目标不在该测试的条目集合里
	ItemNotInTest     = ErrorCode{Code: 506004, Msg: "条目不属于该测试"}
	CannotRateOwnTest = ErrorCode{Code: 506005, Msg: "不能评价自己的测试"}
	ItemNotFound      = ErrorCode{Code: 506006, Msg: "照片或提示不存在"}
	ProfileNotFound   = ErrorCode{Code: 506007, Msg: "资料不存在"}
	AlreadyRated      = ErrorCode{Code: 506008, Msg: "已经评过这个条目"}
)

type ErrorCode struct {
	Code int
	Msg  string
}
