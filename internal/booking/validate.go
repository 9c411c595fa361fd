package booking

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var timeOfDayRe = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// Validate turns a raw submission into a well-formed Booking. The returned
// booking has no ID; the store assigns one on Add.
func Validate(raw Raw) (Booking, error) {
	values := make(map[string]string, len(Fields))
	for _, f := range Fields {
		v := strings.TrimSpace(raw[f])
		if v == "" || (f == FieldDate && strings.EqualFold(v, datePlaceholder)) {
			return Booking{}, &ValidationError{Field: f, Err: ErrEmptyField}
		}
		values[f] = v
	}

	if _, err := time.Parse(dateLayout, values[FieldDate]); err != nil {
		return Booking{}, &ValidationError{Field: FieldDate, Err: ErrBadDateFormat}
	}
	for _, f := range []string{FieldStartTime, FieldEndTime} {
		if !timeOfDayRe.MatchString(values[f]) {
			return Booking{}, &ValidationError{Field: f, Err: ErrBadTimeFormat}
		}
		// Stored times are always HH:MM.
		if len(values[f]) == len("9:30") {
			values[f] = "0" + values[f]
		}
	}
	price, err := ParsePrice(values[FieldPrice])
	if err != nil || price.IsNegative() || strings.ContainsAny(values[FieldPrice], "eE") {
		return Booking{}, &ValidationError{Field: FieldPrice, Err: ErrBadPriceFormat}
	}

	status := Status(values[FieldStatus])
	if status != StatusPendente && status != StatusPago {
		return Booking{}, &ValidationError{Field: FieldStatus, Err: ErrBadStatus}
	}

	b := Booking{
		BandName:  values[FieldBandName],
		Contact:   values[FieldContact],
		Date:      values[FieldDate],
		StartTime: values[FieldStartTime],
		EndTime:   values[FieldEndTime],
		Price:     values[FieldPrice],
		Status:    status,
	}

	// Zero-padded HH:MM strings compare in chronological order.
	if b.StartTime >= b.EndTime {
		return Booking{}, &ValidationError{Field: FieldEndTime, Err: ErrNonPositiveDuration}
	}
	return b, nil
}

// ParsePrice reads a price typed with either "." or "," as decimal separator.
func ParsePrice(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
}
