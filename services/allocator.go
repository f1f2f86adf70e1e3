package services

import "github.com/google/uuid"

// allocateMaxAttempts bounds the retry loop around the database's
// uniqueness constraint. A UUIDv4 collision is astronomically unlikely,
// so hitting the cap means something is genuinely wrong.
const allocateMaxAttempts = 5

// AllocateCode draws a fresh public verification code from a 128-bit
// random space. The storage layer's unique index on unique_code is the
// final arbiter.
func AllocateCode() string {
	return uuid.NewString()
}
