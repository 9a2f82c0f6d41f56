package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyChildID is returned when a child record has no ID.
var ErrEmptyChildID = fmt.Errorf("%w: child ID cannot be empty", ErrValidation)

// Child is implemented by Activity, Lodging and Travel. It exposes what the
// relationship logic needs: identity, kind and the itinerary back-reference.
type Child interface {
	ChildID() uuid.UUID
	Kind() ChildKind
	Parent() *uuid.UUID
}

// Activity is a scheduled event within an itinerary.
type Activity struct {
	ID          uuid.UUID  `json:"id"`
	Date        *time.Time `json:"date"`
	Time        string     `json:"time"`
	Address     string     `json:"address"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	Notes       string     `json:"notes"`
	Ticket      string     `json:"ticket"`
	ItineraryID *uuid.UUID `json:"itinerary"`
}

func (a *Activity) ChildID() uuid.UUID { return a.ID }
func (a *Activity) Kind() ChildKind { return ChildActivity }
func (a *Activity) Parent() *uuid.UUID { return a.ItineraryID }

// Validate checks if the Activity has valid data.
func (a *Activity) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyChildID
	}
	return nil
}

// Lodging is a place to stay within an itinerary.
type Lodging struct {
	ID           uuid.UUID  `json:"id"`
	CheckIn      *time.Time `json:"check_in"`
	CheckOut     *time.Time `json:"check_out"`
	Address      string     `json:"address"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	Notes        string     `json:"notes"`
	Confirmation string     `json:"confirmation"`
	ItineraryID  *uuid.UUID `json:"itinerary"`
}

func (l *Lodging) ChildID() uuid.UUID { return l.ID }
func (l *Lodging) Kind() ChildKind { return ChildLodging }
func (l *Lodging) Parent() *uuid.UUID { return l.ItineraryID }

// Validate checks if the Lodging has valid data.
func (l *Lodging) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyChildID
	}
	if l.CheckIn != nil && l.CheckOut != nil && l.CheckOut.Before(*l.CheckIn) {
		return NewValidationError("check_out", "must not be before check_in", ErrValidation)
	}
	return nil
}

// Leg is one end of a Travel record.
type Leg struct {
	Date     *time.Time `json:"date"`
	Time     string     `json:"time"`
	Location string     `json:"location"`
	Mode     string     `json:"mode"`
	Service  string     `json:"service"`
	Seat     string     `json:"seat"`
	Notes    string     `json:"notes"`
	Ticket   string     `json:"ticket"`
}

// Travel is a journey from a depart leg to an arrive leg.
type Travel struct {
	ID          uuid.UUID  `json:"id"`
	Depart      Leg        `json:"depart"`
	Arrive      Leg        `json:"arrive"`
	ItineraryID *uuid.UUID `json:"itinerary"`
}

func (t *Travel) ChildID() uuid.UUID { return t.ID }
func (t *Travel) Kind() ChildKind { return ChildTravel }
func (t *Travel) Parent() *uuid.UUID { return t.ItineraryID }

// Validate checks if the Travel has valid data.
func (t *Travel) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyChildID
	}
	return nil
}

// SameParent reports whether two back-references point at the same itinerary.
func SameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
