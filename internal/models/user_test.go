package models

import "testing"

func TestActorConstructors(t *testing.T) {
	tests := []struct {
		name        string
		actor       Actor
		wantRole    Role
		wantSubject string
	}{
		{name: "student", actor: StudentActor("2021-00123"), wantRole: RoleStudent, wantSubject: "2021-00123"},
		{name: "teacher", actor: TeacherActor(42), wantRole: RoleTeacher, wantSubject: "42"},
		{name: "admin", actor: AdminActor(7), wantRole: RoleAdmin, wantSubject: "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.actor.Role != tt.wantRole {
				t.Errorf("Role = %v, want %v", tt.actor.Role, tt.wantRole)
			}
			if got := tt.actor.Subject(); got != tt.wantSubject {
				t.Errorf("Subject() = %q, want %q", got, tt.wantSubject)
			}
		})
	}
}

func TestActorRolePredicates(t *testing.T) {
	if !StudentActor("x").IsStudent() || StudentActor("x").IsAdmin() {
		t.Error("student predicates wrong")
	}
	if !TeacherActor(1).IsTeacher() || TeacherActor(1).IsStudent() {
		t.Error("teacher predicates wrong")
	}
	if !AdminActor(1).IsAdmin() || AdminActor(1).IsTeacher() {
		t.Error("admin predicates wrong")
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in     string
		want   Role
		wantOK bool
	}{
		{in: "student", want: RoleStudent, wantOK: true},
		{in: "teacher", want: RoleTeacher, wantOK: true},
		{in: "admin", want: RoleAdmin, wantOK: true},
		{in: "Student", wantOK: false},
		{in: "", wantOK: false},
		{in: "superuser", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseRole(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
