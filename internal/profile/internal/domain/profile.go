package domain

import "time"

type Status uint8

const (
	// StatusActive 资料正常可用
	StatusActive Status = 1
	// StatusTesting 有测试正在进行
	StatusTesting Status = 2
	// StatusComplete 最近一次测试已结束
	StatusComplete Status = 3
)

type Profile struct {
	ID       int64
	Uid      int64
	Nickname string
	Bio      string
	Status   Status
	Ctime    time.Time
	Utime    time.Time
}

type Photo struct {
	ID        int64
	ProfileID int64
	// Key 对象存储里的对象键
	Key      string
	Position int
	Ctime    time.Time
}

type Prompt struct {
	ID        int64
	ProfileID int64
	Question  string
	Answer    string
	Ctime     time.Time
}
