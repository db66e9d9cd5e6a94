package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/name-hansel/kore-ai-api/internal/domains/orders/domain"
)

var (
	ErrDateRequired = errors.New("Date is required")
	ErrInvalidDate  = errors.New("Invalid date")
)

var datePattern = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)

// ParseDate reads a dd-mm-yyyy string into a calendar day. Day and month may have one or two digits.
func ParseDate(raw string) (domain.Day, error) {
	if raw == "" {
		return domain.Day{}, ErrDateRequired
	}
	match := datePattern.FindStringSubmatch(raw)
	if match == nil {
		return domain.Day{}, ErrInvalidDate
	}
	day, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	year, _ := strconv.Atoi(match[3])
	d, err := domain.NewDay(year, time.Month(month), day)
	if err != nil {
		return domain.Day{}, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	return d, nil
}
