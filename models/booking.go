package models

// Booking mirrors the backend booking service's record for a bay reservation.
type Booking struct {
	ID           string `json:"id"`
	CustomerRef  string `json:"customerRef"`
	CustomerName string `json:"customerName"`
	Phone        string `json:"phone,omitempty"`
	Date         string `json:"date"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	BayType      string `json:"bayType,omitempty"`
	PartySize    int    `json:"partySize,omitempty"`
	Status       string `json:"status"`
}

// AvailabilitySlot is one open window returned by an availability check.
type AvailabilitySlot struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	BayType   string `json:"bayType,omitempty"`
}
