package booking

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type sortKey struct {
	date  time.Time
	price decimal.Decimal
	text  string
}

type keyed struct {
	b   Booking
	key sortKey
}

// IsColumn reports whether name is one of the seven booking fields.
func IsColumn(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}

// Sort returns a stably sorted copy of items. Dates compare as calendar
// dates, prices as decimals and every other column as case-insensitive text.
// If any value of the column does not parse, nothing is sorted and a
// *SortError is returned.
func Sort(items []Booking, column string, descending bool) ([]Booking, error) {
	if !IsColumn(column) {
		return nil, &SortError{Column: column}
	}

	rows := make([]keyed, len(items))
	for i, b := range items {
		rows[i].b = b
		v := b.Value(column)
		switch column {
		case FieldDate:
			d, err := time.Parse(dateLayout, v)
			if err != nil {
				return nil, &SortError{Column: column, Value: v, Err: err}
			}
			rows[i].key.date = d
		case FieldPrice:
			p, err := ParsePrice(v)
			if err != nil {
				return nil, &SortError{Column: column, Value: v, Err: err}
			}
			rows[i].key.price = p
		default:
			rows[i].key.text = strings.ToLower(v)
		}
	}

	less := func(a, b sortKey) bool {
		switch column {
		case FieldDate:
			return a.date.Before(b.date)
		case FieldPrice:
			return a.price.LessThan(b.price)
		default:
			return a.text < b.text
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if descending {
			return less(rows[j].key, rows[i].key)
		}
		return less(rows[i].key, rows[j].key)
	})

	out := make([]Booking, len(rows))
	for i := range rows {
		out[i] = rows[i].b
	}
	return out, nil
}

// Search keeps, in their input order, the bookings whose band, contact or
// date contains query, ignoring case. An empty query keeps everything.
func Search(items []Booking, query string) []Booking {
	q := strings.ToLower(query)
	if q == "" {
		return clone(items)
	}

	out := make([]Booking, 0, len(items))
	for _, b := range items {
		if strings.Contains(strings.ToLower(b.BandName), q) ||
			strings.Contains(strings.ToLower(b.Contact), q) ||
			strings.Contains(strings.ToLower(b.Date), q) {
			out = append(out, b)
		}
	}
	return out
}
