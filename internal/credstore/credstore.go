// Package credstore owns the user identity documents at users/{username}:
// it computes and verifies password hashes and enforces username uniqueness
// at registration through the store's conditional create.
package credstore

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cloudtasks/internal/common"
	"github.com/dmitrijs2005/cloudtasks/internal/docstore"
)

type Store struct {
	docs docstore.Store
}

func New(docs docstore.Store) *Store {
	return &Store{docs: docs}
}

// Hash returns the hex-encoded SHA-256 digest of the password's UTF-8 bytes.
// Only the digest is ever stored. The digest is unsalted so that documents
// written by earlier deployments keep verifying against the same value.
func Hash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func userPath(username string) string {
	return "users/" + username
}

// Exists reports whether a user document exists for the username. Read-only.
func (s *Store) Exists(ctx context.Context, username string) (bool, error) {
	_, err := s.docs.Get(ctx, userPath(username))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Register creates the user document with the password hash and a pending
// server timestamp. Fails with common.ErrorAlreadyExists when the username is
// taken, including when a concurrent instance won the race.
func (s *Store) Register(ctx context.Context, username, password string) error {
	if username == "" {
		return fmt.Errorf("%w: username must not be empty", common.ErrorValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password must not be empty", common.ErrorValidation)
	}

	return s.docs.Create(ctx, userPath(username), docstore.Fields{
		"password_hash": Hash(password),
		"created_at":    docstore.ServerTimestamp,
	})
}

// Verify checks the password against the stored hash. It returns the username
// unchanged on success; the username itself is the session identity, no
// separate token is minted. Fails with common.ErrorNotFound for an unknown
// user and common.ErrorInvalidCredentials for a wrong password.
func (s *Store) Verify(ctx context.Context, username, password string) (string, error) {
	fields, err := s.docs.Get(ctx, userPath(username))
	if err != nil {
		return "", err
	}

	stored, _ := fields["password_hash"].(string)
	if subtle.ConstantTimeCompare([]byte(Hash(password)), []byte(stored)) != 1 {
		return "", common.ErrorInvalidCredentials
	}
	return username, nil
}
