package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{name: "Ten digits", phone: "9876543210", valid: true},
		{name: "Surrounding spaces", phone: " 9876543210 ", valid: true},
		{name: "Five digits", phone: "98765", valid: false},
		{name: "Eleven digits", phone: "98765432101", valid: false},
		{name: "Letters", phone: "98765abcde", valid: false},
		{name: "Signed", phone: "-987654321", valid: false},
		{name: "Empty", phone: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Phone(tt.phone)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.Equal(t, PhoneMessage, err.Error())
		})
	}
}

func TestPhoneAgreesWithStructRule(t *testing.T) {
	type form struct {
		Phone string `validate:"required,phone10"`
	}

	for _, phone := range []string{"9876543210", "98765 43210", "987654321", "", "+919876543210", "९८७६५४३२१०"} {
		t.Run(phone, func(t *testing.T) {
			structErr := Struct(form{Phone: phone})
			assert.Equal(t, structErr == nil, Phone(phone) == nil)
		})
	}
}

func TestStruct(t *testing.T) {
	type form struct {
		Name  string `validate:"required,min=2"`
		Phone string `validate:"required,phone10"`
		Email string `validate:"omitempty,email"`
	}

	err := Struct(form{Name: "Asha", Phone: "9876543210"})
	assert.NoError(t, err)

	err = Struct(form{Name: "A", Phone: "123", Email: "nope"})
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name must be at least 2 characters", verr.Fields["name"])
	assert.Equal(t, PhoneMessage, verr.Fields["phone"])
	assert.Equal(t, "Invalid email format", verr.Fields["email"])
}
