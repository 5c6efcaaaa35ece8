package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type registerInput struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8,eqfield=PasswordConfirmation"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func TestStruct_RegisterRules(t *testing.T) {
	tests := []struct {
		name       string
		input      registerInput
		wantFields []string
	}{
		{
			name: "valid input",
			input: registerInput{
				Name:                 "Alice",
				Email:                "a@x.com",
				Password:             "secret123",
				PasswordConfirmation: "secret123",
			},
		},
		{
			name: "missing name",
			input: registerInput{
				Email:                "a@x.com",
				Password:             "secret123",
				PasswordConfirmation: "secret123",
			},
			wantFields: []string{"name"},
		},
		{
			name: "malformed email",
			input: registerInput{
				Name:                 "Alice",
				Email:                "not-an-email",
				Password:             "secret123",
				PasswordConfirmation: "secret123",
			},
			wantFields: []string{"email"},
		},
		{
			name: "password too short",
			input: registerInput{
				Name:                 "Alice",
				Email:                "a@x.com",
				Password:             "short",
				PasswordConfirmation: "short",
			},
			wantFields: []string{"password"},
		},
		{
			name: "confirmation mismatch",
			input: registerInput{
				Name:                 "Alice",
				Email:                "a@x.com",
				Password:             "secret123",
				PasswordConfirmation: "different",
			},
			wantFields: []string{"password"},
		},
		{
			name:       "everything missing",
			input:      registerInput{},
			wantFields: []string{"name", "email", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := Struct(tt.input)

			if len(tt.wantFields) == 0 {
				assert.Nil(t, verr)
				return
			}

			assert.NotNil(t, verr)
			assert.Len(t, verr.Fields, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.Contains(t, verr.Fields, field)
				assert.NotEmpty(t, verr.Fields[field])
			}
		})
	}
}

func TestStruct_MessagesUseJSONNames(t *testing.T) {
	verr := Struct(registerInput{
		Name:                 "Alice",
		Email:                "a@x.com",
		Password:             "secret123",
		PasswordConfirmation: "other",
	})

	assert.NotNil(t, verr)
	assert.Equal(t, []string{"The password confirmation does not match."}, verr.Fields["password"])
}
