// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package account

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
)

// Argon2Params is the cost configuration for newly minted digests. The
// parameters are embedded in each PHC string, so raising them later keeps
// every old digest verifiable; NeedsRehash reports which digests were minted
// under a weaker configuration.
type Argon2Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// DefaultArgon2Params follows the OWASP argon2id recommendation.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Time:    1,
		Memory:  64 * 1024,
		Threads: 4,
		SaltLen: 16,
		KeyLen:  32,
	}
}

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = oops.Code("ACCOUNT_EMPTY_PASSWORD").Errorf("password cannot be empty")

// PasswordHasher provides one-way password hashing and verification.
type PasswordHasher interface {
	// Hash produces a salted digest of the password. Fails only on empty
	// input or internal fault, never on input shape.
	Hash(password string) (string, error)

	// Verify checks the password against a digest. Returns (false, nil) on
	// a plain mismatch; an error only for a malformed digest.
	Verify(password, digest string) (bool, error)

	// NeedsRehash reports whether the digest was produced with weaker
	// parameters than the current configuration.
	NeedsRehash(digest string) bool
}

// Argon2idHasher implements PasswordHasher using argon2id with PHC-encoded
// digests of the form $argon2id$v=19$m=...,t=...,p=...$<salt>$<hash>.
type Argon2idHasher struct {
	params Argon2Params
}

// NewArgon2idHasher creates a hasher with the given cost parameters.
func NewArgon2idHasher(params Argon2Params) *Argon2idHasher {
	return &Argon2idHasher{params: params}
}

// Hash produces an argon2id digest of the password.
func (h *Argon2idHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", oops.Code("ACCOUNT_SALT_FAILED").Wrap(err)
	}

	key := argon2.IDKey([]byte(password), salt,
		h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	digest := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return digest, nil
}

// Verify checks the password against a PHC digest. The cost parameters come
// from the digest itself, so digests minted under any past configuration
// remain verifiable.
func (h *Argon2idHasher) Verify(password, digest string) (bool, error) {
	params, salt, key, err := decodeDigest(digest)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(password), salt,
		params.Time, params.Memory, params.Threads, uint32(len(key)))

	return subtle.ConstantTimeCompare(computed, key) == 1, nil
}

// NeedsRehash reports digests that are not argon2id or carry lower cost
// parameters than the current configuration.
func (h *Argon2idHasher) NeedsRehash(digest string) bool {
	params, _, _, err := decodeDigest(digest)
	if err != nil {
		return true
	}
	return params.Time < h.params.Time ||
		params.Memory < h.params.Memory ||
		params.Threads < h.params.Threads
}

// decodeDigest parses a PHC argon2id string into its parameters, salt and key.
func decodeDigest(digest string) (Argon2Params, []byte, []byte, error) {
	var params Argon2Params

	parts := strings.Split(digest, "$")
	if len(parts) != 6 {
		return params, nil, nil, oops.Code("ACCOUNT_INVALID_DIGEST").Errorf("invalid digest format")
	}
	if parts[1] != "argon2id" {
		return params, nil, nil, oops.Code("ACCOUNT_INVALID_DIGEST").
			Errorf("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return params, nil, nil, oops.Code("ACCOUNT_INVALID_DIGEST").Wrap(err)
	}

	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Time, &threads); err != nil {
		return params, nil, nil, oops.Code("ACCOUNT_INVALID_DIGEST").Wrap(err)
	}
	if threads == 0 || threads > 255 {
		return params, nil, nil, oops.Code("ACCOUNT_INVALID_DIGEST").
			Errorf("threads value %d out of range", threads)
	}
	params.Threads = uint8(threads)

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, oops.Code("ACCOUNT_INVALID_DIGEST").Wrap(err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return params, nil, nil, oops.Code("ACCOUNT_INVALID_DIGEST").Wrap(err)
	}
	if len(key) == 0 || len(key) > 1<<10 {
		return params, nil, nil, oops.Code("ACCOUNT_INVALID_DIGEST").
			Errorf("invalid key length: %d", len(key))
	}

	return params, salt, key, nil
}
