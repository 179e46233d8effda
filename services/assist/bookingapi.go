// File: services/assist/bookingapi.go
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"bayassist/config"
	"bayassist/models"
)

// BookingAPI is the backend booking/inventory service this engine calls as
// tools. The service itself is external; only this client surface lives here.
type BookingAPI interface {
	CreateBooking(ctx context.Context, req models.Booking) (*models.Booking, error)
	CheckAvailability(ctx context.Context, date, startTime, endTime, bayType string) ([]models.AvailabilitySlot, error)
	CancelBooking(ctx context.Context, bookingID string) error
	LookupBookings(ctx context.Context, customerRef, phone string) ([]models.Booking, error)
	CheckProAvailability(ctx context.Context, proName, date string) ([]models.AvailabilitySlot, error)
}

// apiError distinguishes backend rejection classes for executor mapping.
type apiError struct {
	StatusCode int
	Body       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("booking api returned %d: %s", e.StatusCode, e.Body)
}

// Package-level HTTP client for booking service calls.
var bookingHTTPClient = &http.Client{Timeout: 10 * time.Second}

// HTTPBookingAPI implements BookingAPI against the configured booking service.
type HTTPBookingAPI struct {
	BaseURL string
	APIKey  string
}

func NewHTTPBookingAPI() *HTTPBookingAPI {
	return &HTTPBookingAPI{
		BaseURL: config.AppConfig.BookingAPIURL,
		APIKey:  config.AppConfig.BookingAPIKey,
	}
}

func (a *HTTPBookingAPI) do(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	u := a.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body *bytes.Buffer = bytes.NewBuffer(nil)
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal booking request: %w", err)
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("failed to build booking request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.APIKey != "" {
		req.Header.Set("X-API-Key", a.APIKey)
	}

	resp, err := bookingHTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach booking service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return &apiError{StatusCode: resp.StatusCode, Body: buf.String()}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode booking response: %w", err)
		}
	}
	return nil
}

func (a *HTTPBookingAPI) CreateBooking(ctx context.Context, booking models.Booking) (*models.Booking, error) {
	var created models.Booking
	if err := a.do(ctx, http.MethodPost, "/bookings", nil, booking, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *HTTPBookingAPI) CheckAvailability(ctx context.Context, date, startTime, endTime, bayType string) ([]models.AvailabilitySlot, error) {
	q := url.Values{}
	q.Set("date", date)
	if startTime != "" {
		q.Set("start", startTime)
	}
	if endTime != "" {
		q.Set("end", endTime)
	}
	if bayType != "" {
		q.Set("bayType", bayType)
	}
	var slots []models.AvailabilitySlot
	if err := a.do(ctx, http.MethodGet, "/availability", q, nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (a *HTTPBookingAPI) CancelBooking(ctx context.Context, bookingID string) error {
	return a.do(ctx, http.MethodDelete, "/bookings/"+bookingID, nil, nil, nil)
}

func (a *HTTPBookingAPI) LookupBookings(ctx context.Context, customerRef, phone string) ([]models.Booking, error) {
	q := url.Values{}
	if customerRef != "" {
		q.Set("customerRef", customerRef)
	}
	if phone != "" {
		q.Set("phone", phone)
	}
	var bookings []models.Booking
	if err := a.do(ctx, http.MethodGet, "/bookings", q, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (a *HTTPBookingAPI) CheckProAvailability(ctx context.Context, proName, date string) ([]models.AvailabilitySlot, error) {
	q := url.Values{}
	q.Set("pro", proName)
	q.Set("date", date)
	var slots []models.AvailabilitySlot
	if err := a.do(ctx, http.MethodGet, "/pros/availability", q, nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}
