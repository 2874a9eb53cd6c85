package web

type Credit struct {
	Amount       int64 `json:"amount"`
	LockedAmount int64 `json:"lockedAmount"`
}

type AddCreditsReq struct {
	Amount int64  `json:"amount"`
	Desc   string `json:"desc"`
}

type LogsReq struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type CreditLogList struct {
	Logs []CreditLog `json:"logs,omitempty"`
}

type CreditLog struct {
	ID           int64  `json:"id"`
	ChangeAmount int64  `json:"changeAmount"`
	Balance      int64  `json:"balance"`
	Biz          string `json:"biz,omitempty"`
	Desc         string `json:"desc,omitempty"`
	Status       int64  `json:"status"`
	Ctime        int64  `json:"ctime"`
}
