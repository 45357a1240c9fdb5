package model

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// PlaceholderMarker replaces every secret value in persisted snapshots.
const PlaceholderMarker = "**encrypted**"

// CredentialDraft is a plaintext credential submission that has not yet been
// validated or stored.
type CredentialDraft struct {
	Platform     Platform
	DisplayName  string
	SecretFields map[string]string
}

// BearerToken returns the plaintext secret the draft's platform uses as its
// bearer credential.
func (d CredentialDraft) BearerToken() string {
	field := d.Platform.BearerField()
	if field == "" {
		return ""
	}
	return d.SecretFields[field]
}

// CredentialRecord is one connected account. SecretFields hold obfuscated
// values in memory and PlaceholderMarker once restored from persistence.
// ID and Platform never change after creation.
type CredentialRecord struct {
	ID           string
	Platform     Platform
	DisplayName  string
	SecretFields map[string]string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Clone returns a deep copy of the record.
func (r CredentialRecord) Clone() CredentialRecord {
	r.SecretFields = maps.Clone(r.SecretFields)
	return r
}

// Masked returns a copy of the record with every secret value replaced by
// PlaceholderMarker.
func (r CredentialRecord) Masked() CredentialRecord {
	masked := make(map[string]string, len(r.SecretFields))
	for k := range r.SecretFields {
		masked[k] = PlaceholderMarker
	}
	r.SecretFields = masked
	return r
}

// CredentialUpdate carries the fields to merge into an existing record. Nil
// fields are left untouched. Platform is accepted so callers can pass a full
// form back, but it is never applied.
type CredentialUpdate struct {
	DisplayName  *string
	Platform     *Platform
	SecretFields map[string]string
}

// ShapeError reports a secret field set that does not match the platform's
// required set.
type ShapeError struct {
	Platform   Platform
	Missing    []string
	Unexpected []string
}

func (e *ShapeError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, "unexpected "+strings.Join(e.Unexpected, ", "))
	}
	return fmt.Sprintf("invalid %s credential fields: %s", e.Platform, strings.Join(parts, "; "))
}

// CheckSecretShape verifies that the keys of fields exactly equal the
// platform's required set and that every value is non-empty.
func CheckSecretShape(p Platform, fields map[string]string) error {
	if !p.Valid() {
		return fmt.Errorf("unsupported platform %q", p)
	}

	shapeErr := &ShapeError{Platform: p}
	for _, name := range platformFields[p] {
		if strings.TrimSpace(fields[name]) == "" {
			shapeErr.Missing = append(shapeErr.Missing, name)
		}
	}
	for name := range fields {
		if !p.IsRequiredField(name) {
			shapeErr.Unexpected = append(shapeErr.Unexpected, name)
		}
	}

	if len(shapeErr.Missing) == 0 && len(shapeErr.Unexpected) == 0 {
		return nil
	}
	slices.Sort(shapeErr.Unexpected)
	return shapeErr
}
