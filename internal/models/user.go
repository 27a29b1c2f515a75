package models

import "time"

type User struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	Country   string    `json:"country,omitempty" db:"country"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedOn time.Time `json:"created_on" db:"created_on"`
	UpdatedOn time.Time `json:"updated_on" db:"updated_on"`
}
