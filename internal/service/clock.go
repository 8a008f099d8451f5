package service

import "time"

// Clock は現在時刻を返します (テストで差し替え可能)
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock は常に同じ時刻を返します
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }
