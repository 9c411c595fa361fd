package booking

import (
	"strings"
	"time"
)

// DefaultDataFile is the durable file the scheduler reads at startup and
// rewrites on every mutation.
const DefaultDataFile = "agendamentos.json"

const (
	dateLayout      = "02/01/2006"
	timeLayout      = "15:04"
	instantLayout   = dateLayout + " " + timeLayout
	datePlaceholder = "dd/mm/aaaa"
)

type Status string

const (
	StatusPendente Status = "Pendente"
	StatusPago     Status = "Pago"
)

// Field keys, as used in the durable file and in raw submissions.
const (
	FieldBandName  = "band_name"
	FieldContact   = "contact"
	FieldDate      = "date"
	FieldStartTime = "start_time"
	FieldEndTime   = "end_time"
	FieldPrice     = "price"
	FieldStatus    = "status"
)

// Fields lists the seven booking fields in display order.
var Fields = []string{FieldBandName, FieldContact, FieldDate, FieldStartTime, FieldEndTime, FieldPrice, FieldStatus}

// Raw is an unvalidated submission keyed by field name.
type Raw map[string]string

type Booking struct {
	ID        string `json:"id"`
	BandName  string `json:"band_name"`
	Contact   string `json:"contact"`
	Date      string `json:"date"`       // "DD/MM/YYYY"
	StartTime string `json:"start_time"` // "HH:MM"
	EndTime   string `json:"end_time"`   // "HH:MM"
	Price     string `json:"price"`      // as typed, "." or "," separator
	Status    Status `json:"status"`
}

// Value returns the text of the named field.
func (b Booking) Value(field string) string {
	switch field {
	case FieldBandName:
		return b.BandName
	case FieldContact:
		return b.Contact
	case FieldDate:
		return b.Date
	case FieldStartTime:
		return b.StartTime
	case FieldEndTime:
		return b.EndTime
	case FieldPrice:
		return b.Price
	case FieldStatus:
		return string(b.Status)
	}
	return ""
}

// Row returns the seven field values in display order.
func (b Booking) Row() []string {
	row := make([]string, len(Fields))
	for i, f := range Fields {
		row[i] = b.Value(f)
	}
	return row
}

func (b Booking) Paid() bool {
	return b.Status == StatusPago
}

// Interval combines the date with the start and end times.
func (b Booking) Interval() (start, end time.Time, err error) {
	start, err = time.Parse(instantLayout, b.Date+" "+b.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = time.Parse(instantLayout, b.Date+" "+b.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func (b Booking) sameFields(o Booking) bool {
	return b.BandName == o.BandName &&
		b.Contact == o.Contact &&
		b.Date == o.Date &&
		b.StartTime == o.StartTime &&
		b.EndTime == o.EndTime &&
		b.Price == o.Price &&
		b.Status == o.Status
}

// FromRow builds a booking (without id) from display-ordered values.
func FromRow(row []string) Booking {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	return Booking{
		BandName:  get(0),
		Contact:   get(1),
		Date:      get(2),
		StartTime: get(3),
		EndTime:   get(4),
		Price:     get(5),
		Status:    Status(get(6)),
	}
}
