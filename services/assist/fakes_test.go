package assist

import (
	"context"
	"errors"

	"bayassist/models"
)

// fakeBookingAPI is an in-memory booking backend. Mutation counters let tests
// assert that dry runs never commit.
type fakeBookingAPI struct {
	bookings []models.Booking
	slots    []models.AvailabilitySlot

	createErr error
	cancelErr error
	lookupErr error
	availErr  error

	creates int
	cancels int
}

func (f *fakeBookingAPI) CreateBooking(ctx context.Context, req models.Booking) (*models.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.creates++
	req.ID = "bk-new"
	req.Status = "confirmed"
	f.bookings = append(f.bookings, req)
	return &req, nil
}

func (f *fakeBookingAPI) CheckAvailability(ctx context.Context, date, startTime, endTime, bayType string) ([]models.AvailabilitySlot, error) {
	if f.availErr != nil {
		return nil, f.availErr
	}
	return f.slots, nil
}

func (f *fakeBookingAPI) CancelBooking(ctx context.Context, bookingID string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	for i, b := range f.bookings {
		if b.ID == bookingID {
			f.cancels++
			f.bookings = append(f.bookings[:i], f.bookings[i+1:]...)
			return nil
		}
	}
	return &apiError{StatusCode: 404, Body: "booking not found"}
}

func (f *fakeBookingAPI) LookupBookings(ctx context.Context, customerRef, phone string) ([]models.Booking, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	var out []models.Booking
	for _, b := range f.bookings {
		if (customerRef != "" && b.CustomerRef == customerRef) || (phone != "" && b.Phone == phone) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingAPI) CheckProAvailability(ctx context.Context, proName, date string) ([]models.AvailabilitySlot, error) {
	if f.availErr != nil {
		return nil, f.availErr
	}
	return f.slots, nil
}

// scriptedModel replays a fixed sequence of decisions. Each Send or
// SendFunctionResult consumes the next one.
type scriptedModel struct {
	script   []*Decision
	startErr error
	sendErr  error

	started  int
	lastReq  ChatRequest
	received []models.FunctionResult
}

func (m *scriptedModel) StartSession(ctx context.Context, req ChatRequest) (ChatSession, error) {
	if m.startErr != nil {
		return nil, m.startErr
	}
	m.started++
	m.lastReq = req
	return &scriptedSession{model: m}, nil
}

type scriptedSession struct {
	model *scriptedModel
}

func (s *scriptedSession) next() (*Decision, error) {
	if s.model.sendErr != nil {
		return nil, s.model.sendErr
	}
	if len(s.model.script) == 0 {
		return nil, errors.New("scripted model exhausted")
	}
	d := s.model.script[0]
	s.model.script = s.model.script[1:]
	return d, nil
}

func (s *scriptedSession) Send(ctx context.Context) (*Decision, error) {
	return s.next()
}

func (s *scriptedSession) SendFunctionResult(ctx context.Context, name string, result models.FunctionResult) (*Decision, error) {
	s.model.received = append(s.model.received, result)
	return s.next()
}

func reply(text string) *Decision {
	return &Decision{Reply: text}
}

func call(name string, args map[string]any) *Decision {
	return &Decision{Call: &ToolCall{Name: name, Args: args}}
}
