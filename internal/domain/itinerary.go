package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors for Itinerary
var (
	ErrEmptyItineraryID     = fmt.Errorf("%w: itinerary ID cannot be empty", ErrValidation)
	ErrEmptyItineraryTitle  = fmt.Errorf("%w: itinerary title cannot be empty", ErrValidation)
	ErrEmptyItineraryUserID = fmt.Errorf("%w: itinerary user ID cannot be empty", ErrValidation)
	ErrInvalidChildKind     = fmt.Errorf("%w: invalid child kind", ErrValidation)
)

// ChildKind names one of the three child collections of an itinerary.
type ChildKind string

// Child kinds. The values double as the JSON names of the itinerary lists.
const (
	ChildActivity ChildKind = "activity"
	ChildLodging  ChildKind = "lodging"
	ChildTravel   ChildKind = "travel"
)

// Valid reports whether k is a known child kind.
func (k ChildKind) Valid() bool {
	switch k {
	case ChildActivity, ChildLodging, ChildTravel:
		return true
	default:
		return false
	}
}

// Itinerary is a trip owned by one user. The three lists hold the IDs of the
// child records whose back-reference points at this itinerary.
type Itinerary struct {
	ID         uuid.UUID   `json:"id"`
	Title      string      `json:"title"`
	DateLeave  *time.Time  `json:"date_leave"`
	DateReturn *time.Time  `json:"date_return"`
	Travel     []uuid.UUID `json:"travel"`
	Lodging    []uuid.UUID `json:"lodging"`
	Activity   []uuid.UUID `json:"activity"`
	Public     bool        `json:"public"`
	Timestamp  time.Time   `json:"timestamp"`
	UserID     uuid.UUID   `json:"user"`
}

// NewItinerary creates an itinerary owned by userID with empty child lists.
func NewItinerary(userID uuid.UUID, title string, public bool) (*Itinerary, error) {
	it := &Itinerary{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(title),
		Public:    public,
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		Travel:    []uuid.UUID{},
		Lodging:   []uuid.UUID{},
		Activity:  []uuid.UUID{},
	}

	if err := it.Validate(); err != nil {
		return nil, err
	}

	return it, nil
}

// Validate checks if the Itinerary has valid data.
func (i *Itinerary) Validate() error {
	if i.ID == uuid.Nil {
		return ErrEmptyItineraryID
	}

	if strings.TrimSpace(i.Title) == "" {
		return ErrEmptyItineraryTitle
	}

	if i.UserID == uuid.Nil {
		return ErrEmptyItineraryUserID
	}

	return nil
}

// Children returns the ID list for the given kind, or nil for an unknown kind.
func (i *Itinerary) Children(kind ChildKind) []uuid.UUID {
	switch kind {
	case ChildActivity:
		return i.Activity
	case ChildLodging:
		return i.Lodging
	case ChildTravel:
		return i.Travel
	default:
		return nil
	}
}

// HasChild reports whether id appears in the list for kind.
func (i *Itinerary) HasChild(kind ChildKind, id uuid.UUID) bool {
	for _, c := range i.Children(kind) {
		if c == id {
			return true
		}
	}
	return false
}

// OwnedBy reports whether the itinerary belongs to userID.
func (i *Itinerary) OwnedBy(userID uuid.UUID) bool {
	return i.UserID == userID
}
