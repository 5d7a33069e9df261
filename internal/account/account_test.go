// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		password  string
		email     string
		wantField string
	}{
		{name: "valid input", username: "alice", password: "s3cret", email: "alice@example.com"},
		{name: "valid with subdomain", username: "bob", password: "pw", email: "bob@mail.example.co.uk"},
		{name: "empty username", password: "pw", email: "a@b.com", wantField: "username"},
		{name: "empty password", username: "alice", email: "a@b.com", wantField: "password"},
		{name: "empty email", username: "alice", password: "pw", wantField: "email"},
		{name: "email without at", username: "alice", password: "pw", email: "alice.example.com", wantField: "email"},
		{name: "email without tld dot", username: "alice", password: "pw", email: "alice@example", wantField: "email"},
		{name: "email with spaces", username: "alice", password: "pw", email: "al ice@example.com", wantField: "email"},
		{name: "email with double at", username: "alice", password: "pw", email: "a@@example.com", wantField: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.username, tt.password, tt.email)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.wantField, validation.Field)
		})
	}
}
