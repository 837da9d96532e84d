package model

import "time"

// Event is a scheduled live experience
type Event struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Title     string    `json:"title" bson:"title"`
	Host      string    `json:"host" bson:"host"`
	City      string    `json:"city" bson:"city"`
	Country   string    `json:"country" bson:"country"`
	Venue     string    `json:"venue,omitempty" bson:"venue,omitempty"`
	Date      time.Time `json:"date" bson:"date"`
	IsActive  bool      `json:"isActive" bson:"isActive"` // Joinable now, otherwise registration only
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Location renders "City, Country" for headers
func (e *Event) Location() string {
	if e.Country == "" {
		return e.City
	}
	return e.City + ", " + e.Country
}

// EventHeader is the banner shown above the workbook
type EventHeader struct {
	Title    string    `json:"title"`
	Host     string    `json:"host"`
	Location string    `json:"location"`
	Date     time.Time `json:"date"`
}

// Header builds the workbook banner for the event
func (e *Event) Header() EventHeader {
	return EventHeader{
		Title:    e.Title,
		Host:     e.Host,
		Location: e.Location(),
		Date:     e.Date,
	}
}

// Registration records interest in an upcoming event
type Registration struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	EventID      string    `json:"eventId" bson:"eventId"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	RegisteredAt time.Time `json:"registeredAt" bson:"registeredAt"`
}

// RegisterRequest is the request body for registering to an event
type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
