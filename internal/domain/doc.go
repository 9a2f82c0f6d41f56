// Package domain contains the itinerary entities, their validation rules and the
// errors shared across layers. Itineraries are owned by a user; activities,
// lodgings and travels hang off an itinerary through a back-reference that must
// mirror the itinerary's child lists.
package domain
