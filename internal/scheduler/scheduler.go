package scheduler

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"rehearsal_scheduler/internal/booking"

	"github.com/sirupsen/logrus"
)

// Service is the boundary front-ends talk to. Bookings are addressed by id;
// views never change the stored order.
type Service struct {
	store   *booking.Store
	loadErr error
}

// ViewOptions selects the projection returned by GetView. An empty
// SortColumn keeps the stored order.
type ViewOptions struct {
	SortColumn     string
	SortDescending bool
	Search         string
}

// Open loads the data file at path. An unreadable file is reported through
// LoadError, moved aside to path+".corrupt" (or the first free
// path+".corrupt.N") and the service starts empty.
func Open(path string) (*Service, error) {
	store := booking.NewStore(path)
	svc := &Service{store: store}

	_, err := store.Load()
	switch {
	case err == nil:
	case errors.Is(err, booking.ErrCorruptStore):
		aside := backupPath(path)
		if rerr := os.Rename(path, aside); rerr != nil {
			return nil, fmt.Errorf("unable to move corrupt data file aside: %w", rerr)
		}
		logrus.WithError(err).WithField("movedTo", aside).Error("Data file unreadable, starting with no bookings")
		svc.loadErr = err
	default:
		return nil, err
	}
	return svc, nil
}

// backupPath returns the first corrupt-file name not already taken.
func backupPath(path string) string {
	aside := path + ".corrupt"
	for n := 1; ; n++ {
		if _, err := os.Lstat(aside); errors.Is(err, fs.ErrNotExist) {
			return aside
		}
		aside = fmt.Sprintf("%s.corrupt.%d", path, n)
	}
}

// LoadError returns the error that made Open start with an empty store, if any.
func (s *Service) LoadError() error {
	return s.loadErr
}

// SubmitNew validates raw and adds it unless it overlaps a stored booking.
func (s *Service) SubmitNew(raw booking.Raw) (booking.Booking, error) {
	candidate, err := booking.Validate(raw)
	if err != nil {
		logRejected("add", "", err)
		return booking.Booking{}, err
	}
	added, err := s.store.Add(candidate)
	if err != nil {
		logRejected("add", "", err)
		return booking.Booking{}, err
	}
	logrus.WithFields(logrus.Fields{"bookingID": added.ID, "band": added.BandName}).Info("Booking added")
	return added, nil
}

// SubmitUpdate replaces all fields of the booking with the given id.
func (s *Service) SubmitUpdate(id string, raw booking.Raw) (booking.Booking, error) {
	candidate, err := booking.Validate(raw)
	if err != nil {
		logRejected("update", id, err)
		return booking.Booking{}, err
	}
	updated, err := s.store.Update(id, candidate)
	if err != nil {
		logRejected("update", id, err)
		return booking.Booking{}, err
	}
	logrus.WithFields(logrus.Fields{"bookingID": id, "band": updated.BandName}).Info("Booking updated")
	return updated, nil
}

// SetStatus resubmits the booking with only its payment status changed.
func (s *Service) SetStatus(id string, status booking.Status) (booking.Booking, error) {
	current, err := s.store.Get(id)
	if err != nil {
		return booking.Booking{}, err
	}
	raw := RawFrom(current)
	raw[booking.FieldStatus] = string(status)
	return s.SubmitUpdate(id, raw)
}

func (s *Service) RequestDelete(id string) (booking.Booking, error) {
	removed, err := s.store.Delete(id)
	if err != nil {
		logRejected("delete", id, err)
		return booking.Booking{}, err
	}
	logrus.WithFields(logrus.Fields{"bookingID": id, "band": removed.BandName}).Info("Booking deleted")
	return removed, nil
}

func (s *Service) Get(id string) (booking.Booking, error) {
	return s.store.Get(id)
}

// GetView filters and sorts a copy of the stored bookings.
func (s *Service) GetView(opts ViewOptions) ([]booking.Booking, error) {
	items := booking.Search(s.store.All(), opts.Search)
	if opts.SortColumn == "" {
		return items, nil
	}
	sorted, err := booking.Sort(items, opts.SortColumn, opts.SortDescending)
	if err != nil {
		logrus.WithError(err).WithField("column", opts.SortColumn).Warn("Sort failed")
		return nil, err
	}
	return sorted, nil
}

// SelectByDisplayedValues maps a rendered row (the seven fields in display
// order) back to the id of the first stored booking with those values.
func (s *Service) SelectByDisplayedValues(row []string) (string, error) {
	return s.store.FindByFields(booking.FromRow(row))
}

// RawFrom turns a stored booking back into a submission.
func RawFrom(b booking.Booking) booking.Raw {
	raw := make(booking.Raw, len(booking.Fields))
	for _, f := range booking.Fields {
		raw[f] = b.Value(f)
	}
	return raw
}

func logRejected(op, id string, err error) {
	logrus.WithError(err).WithFields(logrus.Fields{
		"op":        op,
		"bookingID": id,
		"reason":    Reason(err),
	}).Info("Booking request rejected")
}
