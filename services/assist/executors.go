package assist

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"bayassist/models"
	"bayassist/utils"

	"go.uber.org/zap"
)

// failureFromErr maps a backend error to the executor failure taxonomy.
func failureFromErr(err error) models.FunctionResult {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		kind := FailUpstreamError
		switch apiErr.StatusCode {
		case 400, 422:
			kind = FailValidation
		case 404:
			kind = FailNotFound
		case 409:
			kind = FailConflict
		}
		return models.FunctionResult{OK: false, ErrorKind: kind, Detail: apiErr.Body}
	}
	return models.FunctionResult{OK: false, ErrorKind: FailUpstreamError, Detail: err.Error()}
}

func failValidation(detail string) models.FunctionResult {
	return models.FunctionResult{OK: false, ErrorKind: FailValidation, Detail: detail}
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

var timePattern = regexp.MustCompile(`^([01]?\d|2[0-3])[:.]([0-5]\d)$`)

// normalizeTime canonicalizes customer-style times ("19.00") to "19:00".
func normalizeTime(t string) (string, bool) {
	m := timePattern.FindStringSubmatch(strings.TrimSpace(t))
	if m == nil {
		return "", false
	}
	hh := m[1]
	if len(hh) == 1 {
		hh = "0" + hh
	}
	return hh + ":" + m[2], true
}

// CreateBookingExecutor commits a new bay booking. Under dry run it performs
// the same validation and an availability check but never commits.
type CreateBookingExecutor struct {
	API BookingAPI
}

func (e *CreateBookingExecutor) Execute(ctx context.Context, args map[string]any, dryRun bool) models.FunctionResult {
	date := stringArg(args, "date")
	start, okStart := normalizeTime(stringArg(args, "start"))
	end, okEnd := normalizeTime(stringArg(args, "end"))
	if !okStart || !okEnd {
		return failValidation("start and end must be HH:MM times")
	}
	if start >= end {
		return failValidation(fmt.Sprintf("start %s must be before end %s", start, end))
	}

	booking := models.Booking{
		CustomerRef:  stringArg(args, "customer_ref"),
		CustomerName: stringArg(args, "customer_name"),
		Phone:        stringArg(args, "phone"),
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		BayType:      stringArg(args, "bay_type"),
		PartySize:    intArg(args, "party_size"),
	}

	if dryRun {
		// Read-only check; the booking itself is never committed.
		slots, err := e.API.CheckAvailability(ctx, date, start, end, booking.BayType)
		if err != nil {
			return failureFromErr(err)
		}
		return models.FunctionResult{OK: true, Data: map[string]any{
			"dryRun":         true,
			"wouldBook":      booking,
			"availableSlots": slots,
		}}
	}

	created, err := e.API.CreateBooking(ctx, booking)
	if err != nil {
		// State-changing calls are never auto-retried: a timeout here is
		// reported as an upstream failure, not replayed.
		return failureFromErr(err)
	}
	return models.FunctionResult{OK: true, Data: map[string]any{"booking": created}}
}

// CheckAvailabilityExecutor is read-only; dry run and live behave identically.
type CheckAvailabilityExecutor struct {
	API BookingAPI
}

func (e *CheckAvailabilityExecutor) Execute(ctx context.Context, args map[string]any, dryRun bool) models.FunctionResult {
	date := stringArg(args, "date")
	if date == "" {
		return failValidation("date is required")
	}
	start, end := "", ""
	if raw := stringArg(args, "start"); raw != "" {
		var ok bool
		if start, ok = normalizeTime(raw); !ok {
			return failValidation("start must be an HH:MM time")
		}
	}
	if raw := stringArg(args, "end"); raw != "" {
		var ok bool
		if end, ok = normalizeTime(raw); !ok {
			return failValidation("end must be an HH:MM time")
		}
	}

	slots, err := e.API.CheckAvailability(ctx, date, start, end, stringArg(args, "bay_type"))
	if err != nil {
		return failureFromErr(err)
	}
	return models.FunctionResult{OK: true, Data: map[string]any{"slots": slots, "count": len(slots)}}
}

// CancelBookingExecutor cancels an existing booking. Under dry run it only
// verifies the booking exists.
type CancelBookingExecutor struct {
	API BookingAPI
}

func (e *CancelBookingExecutor) Execute(ctx context.Context, args map[string]any, dryRun bool) models.FunctionResult {
	bookingID := stringArg(args, "booking_id")
	if bookingID == "" {
		return failValidation("booking_id is required")
	}

	if dryRun {
		bookings, err := e.API.LookupBookings(ctx, stringArg(args, "customer_ref"), "")
		if err != nil {
			return failureFromErr(err)
		}
		for _, b := range bookings {
			if b.ID == bookingID {
				return models.FunctionResult{OK: true, Data: map[string]any{
					"dryRun":      true,
					"wouldCancel": b,
				}}
			}
		}
		return models.FunctionResult{OK: false, ErrorKind: FailNotFound, Detail: "booking " + bookingID + " not found"}
	}

	if err := e.API.CancelBooking(ctx, bookingID); err != nil {
		return failureFromErr(err)
	}
	return models.FunctionResult{OK: true, Data: map[string]any{"cancelled": bookingID}}
}

// LookupBookingExecutor is read-only.
type LookupBookingExecutor struct {
	API BookingAPI
}

func (e *LookupBookingExecutor) Execute(ctx context.Context, args map[string]any, dryRun bool) models.FunctionResult {
	customerRef := stringArg(args, "customer_ref")
	phone := stringArg(args, "phone")
	if customerRef == "" && phone == "" {
		return failValidation("customer_ref or phone is required")
	}

	bookings, err := e.API.LookupBookings(ctx, customerRef, phone)
	if err != nil {
		return failureFromErr(err)
	}
	if len(bookings) == 0 {
		return models.FunctionResult{OK: false, ErrorKind: FailNotFound, Detail: "no bookings found"}
	}
	return models.FunctionResult{OK: true, Data: map[string]any{"bookings": bookings}}
}

// CheckProAvailabilityExecutor is read-only.
type CheckProAvailabilityExecutor struct {
	API BookingAPI
}

func (e *CheckProAvailabilityExecutor) Execute(ctx context.Context, args map[string]any, dryRun bool) models.FunctionResult {
	proName := stringArg(args, "pro_name")
	date := stringArg(args, "date")
	if proName == "" || date == "" {
		return failValidation("pro_name and date are required")
	}

	slots, err := e.API.CheckProAvailability(ctx, proName, date)
	if err != nil {
		return failureFromErr(err)
	}
	return models.FunctionResult{OK: true, Data: map[string]any{"pro": proName, "slots": slots}}
}

// DefaultCatalog registers the production action vocabulary. Trigger hints are
// advisory text for the model; they get tuned through the evaluation harness,
// not enforced in code.
func DefaultCatalog(api BookingAPI) *Catalog {
	c := NewCatalog()

	c.Register(FunctionSpec{
		Name:        "create_booking",
		Description: "Create a bay booking for the customer at a confirmed date and time.",
		Parameters: []ParamSpec{
			{Name: "date", Type: "string", Description: "Booking date, YYYY-MM-DD. Use today's date if the customer says today/วันนี้.", Required: true},
			{Name: "start", Type: "string", Description: "Start time HH:MM (24h). Customers may write 19.00 for 19:00.", Required: true},
			{Name: "end", Type: "string", Description: "End time HH:MM (24h).", Required: true},
			{Name: "customer_name", Type: "string", Description: "Customer display name if known."},
			{Name: "customer_ref", Type: "string", Description: "Internal customer reference if known."},
			{Name: "phone", Type: "string", Description: "Contact phone number if provided."},
			{Name: "bay_type", Type: "string", Description: "Requested bay type.", Enum: []string{"social", "standard", "vip"}},
			{Name: "party_size", Type: "integer", Description: "Number of players."},
		},
		TriggerHints: "Customer confirms a specific time after staff offered availability, e.g. 'Confirm 19.00-20.00 ka', 'จอง 1 ทุ่ม', 'book tomorrow 7pm', or replies with a bare time range right after an availability answer.",
	}, &CreateBookingExecutor{API: api})

	c.Register(FunctionSpec{
		Name:        "check_availability",
		Description: "Check open bay slots for a date and optional time window.",
		Parameters: []ParamSpec{
			{Name: "date", Type: "string", Description: "Date to check, YYYY-MM-DD.", Required: true},
			{Name: "start", Type: "string", Description: "Earliest acceptable start HH:MM."},
			{Name: "end", Type: "string", Description: "Latest acceptable end HH:MM."},
			{Name: "bay_type", Type: "string", Description: "Bay type filter.", Enum: []string{"social", "standard", "vip"}},
		},
		TriggerHints: "Customer asks whether a time is free: 'มีคิวว่างไหม', 'ว่างกี่โมง', 'do you have a bay tonight', 'available tomorrow?'.",
	}, &CheckAvailabilityExecutor{API: api})

	c.Register(FunctionSpec{
		Name:        "cancel_booking",
		Description: "Cancel an existing booking by its id.",
		Parameters: []ParamSpec{
			{Name: "booking_id", Type: "string", Description: "Id of the booking to cancel.", Required: true},
			{Name: "customer_ref", Type: "string", Description: "Customer reference for verification."},
		},
		TriggerHints: "Customer wants to cancel: 'ยกเลิก', 'ขอเลื่อน', 'cancel my booking', 'can't make it'. Only call when the booking id is already known from context; otherwise look it up first.",
	}, &CancelBookingExecutor{API: api})

	c.Register(FunctionSpec{
		Name:        "lookup_booking",
		Description: "Find the customer's bookings by reference or phone number.",
		Parameters: []ParamSpec{
			{Name: "customer_ref", Type: "string", Description: "Internal customer reference."},
			{Name: "phone", Type: "string", Description: "Customer phone number."},
		},
		TriggerHints: "Customer asks about their booking or wants to change/cancel one without giving an id: 'จองไว้กี่โมงนะ', 'what time is my booking', 'ยกเลิก' with no booking id in context.",
	}, &LookupBookingExecutor{API: api})

	c.Register(FunctionSpec{
		Name:        "check_pro_availability",
		Description: "Check a teaching pro's open lesson slots for a date.",
		Parameters: []ParamSpec{
			{Name: "pro_name", Type: "string", Description: "Name of the pro.", Required: true},
			{Name: "date", Type: "string", Description: "Date to check, YYYY-MM-DD.", Required: true},
		},
		TriggerHints: "Customer asks about lessons or a coach: 'โปรว่างไหม', 'lesson with Pro Arm', 'golf lesson tomorrow'.",
	}, &CheckProAvailabilityExecutor{API: api})

	utils.GetLogger().Debug("catalog initialized", zap.Int("functions", len(c.Specs())))
	return c
}
