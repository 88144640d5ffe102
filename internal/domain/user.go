package domain

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	Role         Role
	CreatedAt    time.Time
}
