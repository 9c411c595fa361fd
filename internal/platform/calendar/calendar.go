package calendar

import (
	"context"
	"fmt"
	"os"
	"time"

	"rehearsal_scheduler/internal/booking"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const summaryPrefix = "Ensaio: "

// Exporter copies bookings into a Google Calendar as events.
type Exporter struct {
	srv   *calendar.Service
	calID string
	loc   *time.Location
}

// NewExporter authenticates with a service-account credential file.
func NewExporter(ctx context.Context, credentialFile, calendarID, timeZone string) (*Exporter, error) {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return nil, fmt.Errorf("could not load location %q: %w", timeZone, err)
	}

	b, err := os.ReadFile(credentialFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credential file: %w", err)
	}
	config, err := google.JWTConfigFromJSON(b, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credential file to config: %w", err)
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Calendar client: %w", err)
	}
	return newExporter(srv, calendarID, loc), nil
}

func newExporter(srv *calendar.Service, calendarID string, loc *time.Location) *Exporter {
	return &Exporter{srv: srv, calID: calendarID, loc: loc}
}

// Export inserts one event per booking and returns how many were created.
// Bookings whose date or times do not parse are skipped. The first API
// failure stops the export.
func (e *Exporter) Export(ctx context.Context, bookings []booking.Booking) (int, error) {
	exported := 0
	for _, b := range bookings {
		event, err := e.event(b)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"bookingID": b.ID,
				"date":      b.Date,
				"start":     b.StartTime,
				"end":       b.EndTime,
			}).Warn("Skipping booking with unparsable date or time")
			continue
		}

		created, err := e.srv.Events.Insert(e.calID, event).Context(ctx).Do()
		if err != nil {
			logrus.WithError(err).WithField("bookingID", b.ID).Error("Failed to create calendar event")
			return exported, fmt.Errorf("unable to create event for booking %s: %w", b.ID, err)
		}
		logrus.WithFields(logrus.Fields{"bookingID": b.ID, "eventID": created.Id}).Debug("Calendar event created")
		exported++
	}
	return exported, nil
}

func (e *Exporter) event(b booking.Booking) (*calendar.Event, error) {
	start, end, err := b.Interval()
	if err != nil {
		return nil, err
	}
	start = inLocation(start, e.loc)
	end = inLocation(end, e.loc)

	return &calendar.Event{
		Summary:     summaryPrefix + b.BandName,
		Description: description(b),
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: e.loc.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: e.loc.String(),
		},
	}, nil
}

// inLocation reads the wall clock of t as a time in loc.
func inLocation(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}

func description(b booking.Booking) string {
	status := "pendente"
	if b.Paid() {
		status = "pago"
	}
	return fmt.Sprintf("Responsável: %s\nValor: R$ %s\nPagamento: %s", b.Contact, b.Price, status)
}
