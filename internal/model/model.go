// Package model defines the core domain types for the virtual events platform.
package model

import "time"

// Role is the kind of account a user holds.
type Role string

const (
	RoleAttendee  Role = "attendee"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAttendee, RoleOrganizer, RoleAdmin:
		return true
	default:
		return false
	}
}

// User is an account in the user directory.
type User struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Role          Role     `json:"role"`
	Avatar        string   `json:"avatar,omitempty"`
	Bio           string   `json:"bio,omitempty"`
	JoinedEvents  []string `json:"joined_events"`
	CreatedEvents []string `json:"created_events"`
}

// Clone returns a copy that shares no slices with u.
func (u User) Clone() User {
	out := u
	out.JoinedEvents = append([]string{}, u.JoinedEvents...)
	out.CreatedEvents = append([]string{}, u.CreatedEvents...)
	return out
}

// Organizer is the denormalized owner reference carried on every event.
type Organizer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Event represents a virtual event users can register for.
type Event struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	HostURL          string    `json:"host_url,omitempty"`
	Image            string    `json:"image,omitempty"`
	Tags             []string  `json:"tags"`
	MaxCapacity      int       `json:"max_capacity"`
	CurrentAttendees int       `json:"current_attendees"`
	Organizer        Organizer `json:"organizer"`
	IsPublic         bool      `json:"is_public"`
	IsFeatured       bool      `json:"is_featured"`
	IsLive           bool      `json:"is_live,omitempty"`
	Location         string    `json:"location,omitempty"`
	Price            *float64  `json:"price,omitempty"`
	Rating           *float64  `json:"rating,omitempty"`
	// Duration is expressed in minutes.
	Duration *int `json:"duration,omitempty"`
}

// Remaining returns the number of available seats.
func (e *Event) Remaining() int {
	return e.MaxCapacity - e.CurrentAttendees
}

// IsFull returns true when no seats remain.
func (e *Event) IsFull() bool {
	return e.CurrentAttendees >= e.MaxCapacity
}

// EffectivePrice treats a missing price as free.
func (e *Event) EffectivePrice() float64 {
	if e.Price == nil {
		return 0
	}
	return *e.Price
}

// IsFree returns true when the event has no price or a zero price.
func (e *Event) IsFree() bool {
	return e.EffectivePrice() <= 0
}

// Clone returns a deep copy so callers cannot mutate registry state.
func (e Event) Clone() Event {
	out := e
	if e.Tags != nil {
		out.Tags = append([]string(nil), e.Tags...)
	}
	if e.Price != nil {
		p := *e.Price
		out.Price = &p
	}
	if e.Rating != nil {
		r := *e.Rating
		out.Rating = &r
	}
	if e.Duration != nil {
		d := *e.Duration
		out.Duration = &d
	}
	return out
}

// EventInput is the payload for creating a new event. The identifier, attendee
// count and organizer are assigned by the registry.
type EventInput struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	Category    string    `json:"category" validate:"required,category"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date"`
	HostURL     string    `json:"host_url,omitempty" validate:"omitempty,url"`
	Image       string    `json:"image,omitempty" validate:"omitempty,url"`
	Tags        []string  `json:"tags"`
	MaxCapacity int       `json:"max_capacity" validate:"gt=0"`
	IsPublic    bool      `json:"is_public"`
	IsFeatured  bool      `json:"is_featured"`
	Location    string    `json:"location,omitempty"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Rating      *float64  `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Duration    *int      `json:"duration,omitempty" validate:"omitempty,gt=0"`
}

// EventPatch is a partial update. Nil fields are left untouched; set fields
// override the stored value.
type EventPatch struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category    *string    `json:"category,omitempty" validate:"omitempty,category"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	HostURL     *string    `json:"host_url,omitempty" validate:"omitempty,url"`
	Image       *string    `json:"image,omitempty" validate:"omitempty,url"`
	Tags        *[]string  `json:"tags,omitempty"`
	MaxCapacity *int       `json:"max_capacity,omitempty" validate:"omitempty,gt=0"`
	IsPublic    *bool      `json:"is_public,omitempty"`
	IsFeatured  *bool      `json:"is_featured,omitempty"`
	IsLive      *bool      `json:"is_live,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Price       *float64   `json:"price,omitempty" validate:"omitempty,gte=0"`
	Rating      *float64   `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Duration    *int       `json:"duration,omitempty" validate:"omitempty,gt=0"`
}

// Apply returns base with every set field of p copied over it.
func (p EventPatch) Apply(base Event) Event {
	out := base.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.StartDate != nil {
		out.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		out.EndDate = *p.EndDate
	}
	if p.HostURL != nil {
		out.HostURL = *p.HostURL
	}
	if p.Image != nil {
		out.Image = *p.Image
	}
	if p.Tags != nil {
		out.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.MaxCapacity != nil {
		out.MaxCapacity = *p.MaxCapacity
	}
	if p.IsPublic != nil {
		out.IsPublic = *p.IsPublic
	}
	if p.IsFeatured != nil {
		out.IsFeatured = *p.IsFeatured
	}
	if p.IsLive != nil {
		out.IsLive = *p.IsLive
	}
	if p.Location != nil {
		out.Location = *p.Location
	}
	if p.Price != nil {
		v := *p.Price
		out.Price = &v
	}
	if p.Rating != nil {
		v := *p.Rating
		out.Rating = &v
	}
	if p.Duration != nil {
		v := *p.Duration
		out.Duration = &v
	}
	return out
}

// ProfilePatch is a partial update of the signed-in user's profile.
type ProfilePatch struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email  *string `json:"email,omitempty" validate:"omitempty,email"`
	Bio    *string `json:"bio,omitempty" validate:"omitempty,max=1000"`
	Avatar *string `json:"avatar,omitempty" validate:"omitempty,url"`
}

// LoginRequest is the payload for signing in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the payload for creating an account.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
	Role     Role   `json:"role" validate:"required,oneof=attendee organizer admin"`
}

// Comment is a read-only remark left on an event.
type Comment struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name"`
	UserAvatar string    `json:"user_avatar,omitempty"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
