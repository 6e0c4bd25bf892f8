package lifecycle

import (
	"context"
	"errors"
	"sync"
	"time"
	_ "time/tzdata"

	"feline-finder/internal/data/entity"
	"feline-finder/internal/domain"

	"github.com/google/uuid"
)

type memStore struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]entity.Booking
	writes   int
	// afterCommit runs once a changed booking is stored
	afterCommit func()
}

func newMemStore(bookings ...entity.Booking) *memStore {
	s := &memStore{bookings: make(map[uuid.UUID]entity.Booking)}
	for _, b := range bookings {
		s.bookings[b.ID] = b
	}
	return s
}

func (s *memStore) FindByID(_ context.Context, orgID, id uuid.UUID) (*entity.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok || b.OrgID != orgID {
		return nil, nil
	}
	return &b, nil
}

func (s *memStore) Mutate(_ context.Context, orgID, id uuid.UUID, _ string, fn func(b *entity.Booking) (bool, error)) (*entity.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.bookings[id]
	if !ok || current.OrgID != orgID {
		return nil, domain.NotFoundError{Resource: "booking", ID: id.String()}
	}

	working := current
	changed, err := fn(&working)
	if err != nil {
		return nil, err
	}
	if changed {
		s.bookings[id] = working
		s.writes++
		if s.afterCommit != nil {
			s.afterCommit()
		}
		return &working, nil
	}
	return &current, nil
}

func (s *memStore) status(id uuid.UUID) entity.BookingStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings[id].Status
}

type calendarCall struct {
	bookingID uuid.UUID
	action    CalendarAction
}

type fakeCalendar struct {
	calls []calendarCall
	err   error
}

func (f *fakeCalendar) Sync(ctx context.Context, b *entity.Booking, action CalendarAction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.calls = append(f.calls, calendarCall{bookingID: b.ID, action: action})
	return f.err
}

type fakeNotifier struct {
	sent []MessageType
	err  error
}

func (f *fakeNotifier) Send(ctx context.Context, _ *entity.Booking, msg MessageType) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.sent = append(f.sent, msg)
	return f.err
}

type fakeRetrier struct {
	tasks []RetryTask
	err   error
}

func (f *fakeRetrier) Enqueue(ctx context.Context, task RetryTask) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.tasks = append(f.tasks, task)
	return f.err
}

var errProviderDown = errors.New("provider unavailable")

func newBooking(orgID uuid.UUID, status entity.BookingStatus, calendarID int64) entity.Booking {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	return entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: start, UpdatedAt: start},
		OrgID:        orgID,
		Adopter:      entity.Ref{ID: "adopter-1", Name: "Dana Reyes"},
		Cat:          entity.Ref{ID: "cat-1", Name: "Biscuit"},
		Volunteer:    entity.Ref{ID: "vol-1", Name: "Sam Ortiz"},
		StartTime:    start,
		StartTZ:      "America/Chicago",
		EndTime:      start.Add(time.Hour),
		EndTZ:        "America/Chicago",
		CalendarID:   calendarID,
		Summary:      "Meet Biscuit",
		Status:       status,
	}
}
