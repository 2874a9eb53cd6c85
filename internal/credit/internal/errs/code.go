package errs

var (
	SystemError = ErrorCode{Code: 504001, Msg: "系统错误"}
	// CreditNotEnough 可用积分不足以完成本次预扣
	CreditNotEnough = ErrorCode{Code: 504002, Msg: "积分不足"}
	// InvalidAmount 充值数量必须为正数
	InvalidAmount = ErrorCode{Code: 504003, Msg: "积分数量非法"}
)

type ErrorCode struct {
	Code int
	Msg  string
}
