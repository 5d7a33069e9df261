// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package account

import "context"

// Notifier delivers the confirmation link to a freshly registered address.
//
// Delivery is mandatory during registration: the service runs account
// insert, token issue and Send as one unit, and a Send failure rolls the
// inserts back so no account is ever stranded unconfirmed with no mail sent.
type Notifier interface {
	Send(ctx context.Context, email, confirmationLink string) error
}
