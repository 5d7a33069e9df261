// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

// Package account implements the account lifecycle for the game backend.
//
// # Domain Types
//
// An Account is created unconfirmed by registration and transitions to
// confirmed exactly once, when its confirmation token is redeemed. The
// plaintext token is mailed to the player; only its SHA-256 hash is
// persisted, and redemption consumes the row.
//
// # Services
//
// Service coordinates the register/confirm/login flow over the
// CredentialStore, ConfirmationTokenStore, PasswordHasher and Notifier
// collaborators. Stores are plugged in via their interfaces; the postgres
// subpackage provides the durable implementations and the accounttest
// subpackage provides in-memory ones for tests.
package account
