package util

import "time"

const (
	DatabaseMySQL  = "mysql"
	DatabaseSQLite = "sqlite"
)

// StartOfDay 返回 t 所在日的零点（保留时区）
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay 返回 t 所在日的最后一刻
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
