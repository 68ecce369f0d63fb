package util

import "time"

const (
	TimeLayoutDatetimeN = "2006-01-02 15:04:05.9"
	TimeLayoutDatetime  = "2006-01-02 15:04:05"
)

type Datetime time.Time

func (d *Datetime) Time() *time.Time {
	if d == nil {
		return nil
	}
	return (*time.Time)(d)
}

func (d Datetime) MarshalJSON() ([]byte, error) {
	t := time.Time(d)
	if t.IsZero() {
		return []byte("null"), nil
	}
	s := t.Format(TimeLayoutDatetime)
	return append([]byte(`"`), append([]byte(s), '"')...), nil
}

func (d *Datetime) UnmarshalJSON(data []byte) error {
	// double quotes only, or null
	if len(data) <= 4 {
		return nil
	}
	t, err := ParseDatetime(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = Datetime(t)
	return nil
}

func ParseDatetime(s string) (time.Time, error) {
	return time.ParseInLocation(TimeLayoutDatetimeN, s, time.Local)
}
