package api

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/itinerator-api/internal/domain"
	"github.com/phrazzld/itinerator-api/internal/service"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries a freshly issued token.
type AuthResponse struct {
	AuthToken string `json:"authToken"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       uuid.UUID   `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	AuthorOf []uuid.UUID `json:"author_of"`
}

func userToResponse(u *domain.User) UserResponse {
	authorOf := u.AuthorOf
	if authorOf == nil {
		authorOf = []uuid.UUID{}
	}
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		AuthorOf: authorOf,
	}
}

// ItineraryRequest is the body of itinerary create and replace requests.
type ItineraryRequest struct {
	Title      string     `json:"title"       validate:"required,notblank,max=200"`
	DateLeave  *time.Time `json:"date_leave"`
	DateReturn *time.Time `json:"date_return"`
	Public     bool       `json:"public"`
}

func (req ItineraryRequest) toInput() service.ItineraryInput {
	return service.ItineraryInput{
		Title:      strings.TrimSpace(req.Title),
		DateLeave:  req.DateLeave,
		DateReturn: req.DateReturn,
		Public:     req.Public,
	}
}

// ActivityRequest is the body of activity create and replace requests.
type ActivityRequest struct {
	Date      *time.Time `json:"date"`
	Time      string     `json:"time"`
	Address   string     `json:"address"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	Notes     string     `json:"notes"`
	Ticket    string     `json:"ticket"`
	Itinerary *uuid.UUID `json:"itinerary"`
}

func (req ActivityRequest) toDomain(id uuid.UUID) *domain.Activity {
	return &domain.Activity{
		ID:          id,
		Date:        req.Date,
		Time:        req.Time,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		Notes:       req.Notes,
		Ticket:      req.Ticket,
		ItineraryID: req.Itinerary,
	}
}

// LodgingRequest is the body of lodging create and replace requests.
type LodgingRequest struct {
	CheckIn      *time.Time `json:"check_in"`
	CheckOut     *time.Time `json:"check_out"`
	Address      string     `json:"address"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	Notes        string     `json:"notes"`
	Confirmation string     `json:"confirmation"`
	Itinerary    *uuid.UUID `json:"itinerary"`
}

func (req LodgingRequest) toDomain(id uuid.UUID) *domain.Lodging {
	return &domain.Lodging{
		ID:           id,
		CheckIn:      req.CheckIn,
		CheckOut:     req.CheckOut,
		Address:      req.Address,
		Phone:        req.Phone,
		Email:        req.Email,
		Notes:        req.Notes,
		Confirmation: req.Confirmation,
		ItineraryID:  req.Itinerary,
	}
}

// TravelRequest is the body of travel create and replace requests.
type TravelRequest struct {
	Depart    domain.Leg `json:"depart"`
	Arrive    domain.Leg `json:"arrive"`
	Itinerary *uuid.UUID `json:"itinerary"`
}

func (req TravelRequest) toDomain(id uuid.UUID) *domain.Travel {
	return &domain.Travel{
		ID:          id,
		Depart:      req.Depart,
		Arrive:      req.Arrive,
		ItineraryID: req.Itinerary,
	}
}
