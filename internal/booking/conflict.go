package booking

import (
	"github.com/sirupsen/logrus"
)

// FindConflict returns the first booking in existing whose interval overlaps
// the candidate's on the same date, or nil. The booking with id excludeID is
// ignored so an update does not conflict with itself.
//
// Intervals are half-open: a session ending at 10:00 leaves 10:00 free.
// Stored rows whose date or times do not parse are skipped and logged.
func FindConflict(candidate Booking, existing []Booking, excludeID string) *Booking {
	newStart, newEnd, err := candidate.Interval()
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"date":  candidate.Date,
			"start": candidate.StartTime,
			"end":   candidate.EndTime,
		}).Warn("Candidate booking has no valid interval, skipping conflict check")
		return nil
	}

	for i := range existing {
		b := existing[i]
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		start, end, err := b.Interval()
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"bookingID": b.ID,
				"band":      b.BandName,
				"date":      b.Date,
				"start":     b.StartTime,
				"end":       b.EndTime,
			}).Warn("Skipping stored booking with malformed date or time")
			continue
		}
		if newStart.Before(end) && newEnd.After(start) {
			return &b
		}
	}
	return nil
}
