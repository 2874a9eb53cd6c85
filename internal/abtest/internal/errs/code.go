package errs

var (
	SystemError = ErrorCode{Code: 505001, Msg: "系统错误"}
	// InsufficientCredits 可用积分低于测试费用
	InsufficientCredits = ErrorCode{Code: 505002, Msg: "积分不足"}
	ProfileNotFound     = ErrorCode{Code: 505003, Msg: "资料不存在"}
	ItemNotFound        = ErrorCode{Code: 505004, Msg: "照片或提示不存在"}
	InvalidItemType     = ErrorCode{Code: 505005, Msg: "条目类型非法"}
	TestNotFound        = ErrorCode{Code: 505006, Msg: "测试不存在"}
	// InvalidTestStatus 测试已结束等状态冲突
	InvalidTestStatus = ErrorCode{Code: 505007, Msg: "测试状态非法"}
)

type ErrorCode struct {
	Code int
	Msg  string
}
