package usecase

import (
	"context"
	"sync"
	"time"
	_ "time/tzdata"

	"feline-finder/internal/data/entity"
	"feline-finder/internal/data/repository"
	"feline-finder/internal/domain"
	"feline-finder/internal/lifecycle"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type memBookings struct {
	mu     sync.Mutex
	rows   []entity.Booking
	events []entity.StatusEvent
}

func (m *memBookings) Create(_ context.Context, b *entity.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *b)
	return nil
}

func (m *memBookings) FindByID(_ context.Context, orgID, id uuid.UUID) (*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.rows {
		if b.ID == id && b.OrgID == orgID {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memBookings) ListByOrg(_ context.Context, orgID uuid.UUID) ([]entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.Booking{}
	for _, b := range m.rows {
		if b.OrgID == orgID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBookings) Mutate(_ context.Context, orgID, id uuid.UUID, action string, fn func(b *entity.Booking) (bool, error)) (*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.rows {
		if b.ID != id || b.OrgID != orgID {
			continue
		}
		working := b
		changed, err := fn(&working)
		if err != nil {
			return nil, err
		}
		if !changed {
			return &b, nil
		}
		if working.Status != b.Status {
			m.events = append(m.events, entity.StatusEvent{
				BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
				BookingID:  id,
				OrgID:      orgID,
				FromStatus: b.Status,
				ToStatus:   working.Status,
				Action:     action,
			})
		}
		m.rows[i] = working
		return &working, nil
	}
	return nil, domain.NotFoundError{Resource: "booking", ID: id.String()}
}

func (m *memBookings) ListByBooking(_ context.Context, orgID, bookingID uuid.UUID) ([]entity.StatusEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.StatusEvent{}
	for _, ev := range m.events {
		if ev.BookingID == bookingID && ev.OrgID == orgID {
			out = append(out, ev)
		}
	}
	return out, nil
}

type memPresets struct {
	mu   sync.Mutex
	data map[string]map[string][]byte
}

func newMemPresets() *memPresets {
	return &memPresets{data: map[string]map[string][]byte{}}
}

func (m *memPresets) owner(orgID, userID uuid.UUID) string {
	return orgID.String() + "/" + userID.String()
}

func (m *memPresets) Save(_ context.Context, orgID, userID uuid.UUID, name string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := m.owner(orgID, userID)
	if m.data[key] == nil {
		m.data[key] = map[string][]byte{}
	}
	m.data[key][name] = payload
	return nil
}

func (m *memPresets) Load(_ context.Context, orgID, userID uuid.UUID, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[m.owner(orgID, userID)][name]
	if !ok {
		return nil, domain.NotFoundError{Resource: "preset", ID: name}
	}
	return data, nil
}

func (m *memPresets) List(_ context.Context, orgID, userID uuid.UUID) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string][]byte{}
	for k, v := range m.data[m.owner(orgID, userID)] {
		out[k] = v
	}
	return out, nil
}

func (m *memPresets) Delete(_ context.Context, orgID, userID uuid.UUID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := m.owner(orgID, userID)
	if _, ok := m.data[key][name]; !ok {
		return domain.NotFoundError{Resource: "preset", ID: name}
	}
	delete(m.data[key], name)
	return nil
}

type nopCalendar struct{ calls []lifecycle.CalendarAction }

func (c *nopCalendar) Sync(_ context.Context, _ *entity.Booking, action lifecycle.CalendarAction) error {
	c.calls = append(c.calls, action)
	return nil
}

type nopNotifier struct{ sent []lifecycle.MessageType }

func (n *nopNotifier) Send(_ context.Context, _ *entity.Booking, msg lifecycle.MessageType) error {
	n.sent = append(n.sent, msg)
	return nil
}

type fixture struct {
	bookings *memBookings
	presets  *memPresets
	calendar *nopCalendar
	notifier *nopNotifier
	service  *Service
	orgID    uuid.UUID
	userID   uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		bookings: &memBookings{},
		presets:  newMemPresets(),
		calendar: &nopCalendar{},
		notifier: &nopNotifier{},
		orgID:    uuid.New(),
		userID:   uuid.New(),
	}
	repo := &repository.Repository{
		Booking:     f.bookings,
		StatusEvent: f.bookings,
		Preset:      f.presets,
	}
	log := zap.NewNop()
	engine := lifecycle.NewEngine(f.bookings, f.calendar, f.notifier, nil, log)
	f.service = NewService(repo, engine, log)
	return f
}

func (f *fixture) seed(adopter string, status entity.BookingStatus, calendarID int64) entity.Booking {
	start := time.Date(2026, 8, 10, 16, 0, 0, 0, time.UTC).Add(time.Duration(len(f.bookings.rows)) * time.Hour)
	b := entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: start, UpdatedAt: start},
		OrgID:        f.orgID,
		Adopter:      entity.Ref{ID: "a-" + adopter, Name: adopter},
		Cat:          entity.Ref{ID: "c-1", Name: "Pepper"},
		Volunteer:    entity.Ref{ID: "v-1", Name: "Jo Park"},
		StartTime:    start,
		StartTZ:      "America/New_York",
		EndTime:      start.Add(time.Hour),
		EndTZ:        "America/New_York",
		CalendarID:   calendarID,
		Status:       status,
	}
	f.bookings.rows = append(f.bookings.rows, b)
	return b
}
