package envparse

import (
	"errors"
	"strconv"
	"time"
)

func PositiveDuration(value string) (time.Duration, error) {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	} else if duration < 0 {
		return 0, errors.New("duration must not be negative")
	}
	return duration, nil
}

func NonNegativeNumber(value string) (int, error) {
	number, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	} else if number < 0 {
		return 0, errors.New("number must not be negative")
	}
	return number, nil
}
