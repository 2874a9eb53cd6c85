package errs

var (
	SystemError     = ErrorCode{Code: 502001, Msg: "系统错误"}
	ProfileNotFound = ErrorCode{Code: 502002, Msg: "资料不存在"}
)

type ErrorCode struct {
	Code int
	Msg  string
}
