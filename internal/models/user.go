package models

import "fmt"

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Actor is the authenticated identity handed to every service operation.
// The web tier builds it from the verified token; services never read
// identity from anywhere else.
type Actor struct {
	Role Role

	// Exactly one of the following is set, matching Role.
	StudentID string
	TeacherID uint
	AdminID   uint
}

func StudentActor(schoolID string) Actor {
	return Actor{Role: RoleStudent, StudentID: schoolID}
}

func TeacherActor(id uint) Actor {
	return Actor{Role: RoleTeacher, TeacherID: id}
}

func AdminActor(id uint) Actor {
	return Actor{Role: RoleAdmin, AdminID: id}
}

func (a Actor) IsStudent() bool { return a.Role == RoleStudent }
func (a Actor) IsTeacher() bool { return a.Role == RoleTeacher }
func (a Actor) IsAdmin() bool   { return a.Role == RoleAdmin }

// Subject returns the entity identifier as a string, for logging.
func (a Actor) Subject() string {
	switch a.Role {
	case RoleStudent:
		return a.StudentID
	case RoleTeacher:
		return fmt.Sprintf("%d", a.TeacherID)
	case RoleAdmin:
		return fmt.Sprintf("%d", a.AdminID)
	default:
		return ""
	}
}

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}
