package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() RegisterStudentRequest {
	return RegisterStudentRequest{
		SchoolID:  "2021-00123",
		Password:  "hunter22",
		Email:     "dela.cruz@example.edu",
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		YearLevel: "2nd Year",
	}
}

func TestValidateRegisterStudent(t *testing.T) {
	v := New()

	t.Run("accepts a complete registration", func(t *testing.T) {
		req := validRegistration()
		assert.NoError(t, v.Validate(&req))
	})

	t.Run("school ID rule", func(t *testing.T) {
		for id, ok := range map[string]bool{
			"2021-00123": true,
			"ABC123":     true,
			"ab1":        true,
			"-2021":      false, // must start alphanumeric
			"20":         false, // too short
			"2021_00123": false, // underscore not allowed
			"2021 00123": false,
			"":           false,
		} {
			req := validRegistration()
			req.SchoolID = id
			err := v.Validate(&req)
			if ok {
				assert.NoErrorf(t, err, "school ID %q should be accepted", id)
			} else {
				assert.Errorf(t, err, "school ID %q should be rejected", id)
			}
		}
	})

	t.Run("reports json field names", func(t *testing.T) {
		req := validRegistration()
		req.Email = "not-an-email"

		err := v.Validate(&req)
		require.Error(t, err)

		var fields ValidationErrors
		require.True(t, errors.As(err, &fields))
		require.Len(t, fields, 1)
		assert.Equal(t, "email", fields[0].Field)
		assert.Equal(t, "email", fields[0].Tag)
		assert.Contains(t, fields[0].Message, "valid email")
	})

	t.Run("short password", func(t *testing.T) {
		req := validRegistration()
		req.Password = "abc"

		err := v.Validate(&req)
		require.Error(t, err)

		var fields ValidationErrors
		require.True(t, errors.As(err, &fields))
		assert.Equal(t, "password", fields[0].Field)
	})
}

func TestValidateLogin(t *testing.T) {
	v := New()

	err := v.Validate(&LoginRequest{Role: "superuser", Username: "x", Password: "y"})
	require.Error(t, err)

	var fields ValidationErrors
	require.True(t, errors.As(err, &fields))
	assert.Equal(t, "role", fields[0].Field)
	assert.Equal(t, "oneof", fields[0].Tag)
}

func TestValidateUpdateStudentPartial(t *testing.T) {
	v := New()

	// All-nil updates are valid; only supplied fields are checked.
	assert.NoError(t, v.Validate(&UpdateStudentRequest{}))

	bad := "not-an-email"
	assert.Error(t, v.Validate(&UpdateStudentRequest{Email: &bad}))

	status := "Rejected"
	assert.Error(t, v.Validate(&UpdateStudentRequest{Status: &status}))

	approved := "Approved"
	assert.NoError(t, v.Validate(&UpdateStudentRequest{Status: &approved}))
}

func TestValidationErrorsMessage(t *testing.T) {
	assert.Equal(t, "validation failed", ValidationErrors{}.Error())

	joined := ValidationErrors{
		{Message: "email is required"},
		{Message: "password is required"},
	}
	assert.Equal(t, "email is required; password is required", joined.Error())
}
