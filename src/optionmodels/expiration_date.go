package optionmodels

import (
	"fmt"
	"time"
)

type ExpirationDate string

func (e ExpirationDate) Parse() (time.Time, error) {
	exp, err := time.Parse("2006-01-02", string(e))
	if err != nil {
		return time.Time{}, fmt.Errorf("ExpirationDate: Parse: failed to parse %s: %w", e, err)
	}

	return exp, nil
}

// DaysUntil returns whole calendar days between now and the expiration date.
// Expired dates yield a negative count.
func (e ExpirationDate) DaysUntil(now time.Time) (int, error) {
	exp, err := e.Parse()
	if err != nil {
		return 0, err
	}

	return int(exp.Sub(now).Hours() / 24), nil
}

func NewExpirationDate(t time.Time) ExpirationDate {
	return ExpirationDate(t.Format("2006-01-02"))
}
