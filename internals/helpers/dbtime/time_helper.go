package dbtime

import (
	"strings"
	"sync"
	"time"

	"gorm.io/datatypes"

	"registrar_backend/internals/configs"
)

const DateLayout = "2006-01-02"

var (
	locOnce sync.Once
	loc     *time.Location
)

// SchoolLocation resolves SCHOOL_TIMEZONE once. Falls back to UTC.
func SchoolLocation() *time.Location {
	locOnce.Do(func() {
		name := strings.TrimSpace(configs.Conf.GetString("SCHOOL_TIMEZONE"))
		if l, err := time.LoadLocation(name); err == nil && name != "" {
			loc = l
			return
		}
		loc = time.UTC
	})
	return loc
}

func NowInSchool() time.Time {
	return time.Now().In(SchoolLocation())
}

// ToSchoolTime converts a stored (UTC) time to the school timezone.
func ToSchoolTime(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.In(SchoolLocation())
}

// Today is the current calendar date at the school, as a DATE column value.
func Today() datatypes.Date {
	return DateOf(NowInSchool())
}

// DateOf drops the clock part, keeping the calendar day of t.
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}

func FormatDatePtr(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	s := FormatDate(*d)
	return &s
}
