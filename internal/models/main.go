// Package models defines the core data structures shared by the lines client
// and the reference server: stations, lines, members and their wire payloads.
package models

// Station is a subway station a line can start or end at.
type Station struct {
	// ID is the server-assigned identifier of the station.
	ID int64 `json:"id"`
	// Name is the display name of the station.
	Name string `json:"name"`
}

// Line is a subway line as held by the client collection.
// It is created only from a server-confirmed create and never edited in place.
type Line struct {
	// ID is the server-assigned identifier of the line.
	ID int64 `json:"id"`
	// Name is the unique display name of the line.
	Name string `json:"name"`
	// StartStation is the up-bound terminal station.
	StartStation Station `json:"startStation"`
	// EndStation is the down-bound terminal station.
	EndStation Station `json:"endStation"`
	// Distance is the positive length between the two terminals.
	Distance int `json:"distance"`
	// Color is the display color of the line.
	Color string `json:"color"`
}

// CreateLineRequest is the body of POST /lines.
type CreateLineRequest struct {
	Name          string `json:"name"`
	UpStationID   int64  `json:"upStationId"`
	DownStationID int64  `json:"downStationId"`
	Distance      int    `json:"distance"`
	Color         string `json:"color"`
}

// LineResponse is the server view of a line. Besides the Line fields it lists
// the terminal stations in up, down order.
type LineResponse struct {
	Line
	Stations []Station `json:"stations"`
}

// CreateStationRequest is the body of POST /stations.
type CreateStationRequest struct {
	Name string `json:"name"`
}

// LoginRequest is the body of POST /login/token and POST /members.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the body returned by POST /login/token.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// MemberResponse is the body returned by GET /members/me.
type MemberResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Credentials is the identity and bearer token of an authenticated session.
type Credentials struct {
	Email       string `json:"email"`
	AccessToken string `json:"accessToken"`
}

// Member represents a registered user of the service.
type Member struct {
	// ID is the unique identifier for the member.
	ID int64
	// Email is the login name of the member.
	Email string
	// PasswordHash is the bcrypt hash of the member's password.
	PasswordHash []byte
}

// ErrorBody is the JSON envelope of every non-2xx response.
type ErrorBody struct {
	Message string `json:"message"`
}
