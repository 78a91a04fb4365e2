package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Weekday is the three-letter English day name used by the API (Sun..Sat).
type Weekday string

const (
	Sunday    Weekday = "Sun"
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
)

var weekdayByTime = [...]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekdayOf maps a time.Weekday onto its Weekday name.
func WeekdayOf(d time.Weekday) Weekday {
	return weekdayByTime[d]
}

// Weekdays is stored as a JSONB array.
type Weekdays []Weekday

func (w Weekdays) Contains(d time.Weekday) bool {
	want := WeekdayOf(d)
	for _, day := range w {
		if day == want {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer
func (w Weekdays) Value() (driver.Value, error) {
	if len(w) == 0 {
		return nil, nil
	}
	return json.Marshal(w)
}

// Scan implements sql.Scanner
func (w *Weekdays) Scan(value interface{}) error {
	if value == nil {
		*w = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal weekdays value: %v", value)
	}

	var days []Weekday
	if err := json.Unmarshal(bytes, &days); err != nil {
		return err
	}
	*w = days
	return nil
}
