package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the day/month/year wire format used for every date field.
const DateLayout = "02/01/2006"

// Date serializes as a calendar date in the location the time carries. Parsing
// yields midnight UTC of the same calendar day.
type Date time.Time

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date(t), nil
}

func (d Date) String() string { return time.Time(d).Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
