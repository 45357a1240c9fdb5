package driven

import "errors"

// ErrSecretUnavailable is returned when a secret value cannot be recovered,
// for example because it was restored from a masked snapshot.
var ErrSecretUnavailable = errors.New("secret value unavailable")

// SecretCipher defines the driven port for reversible secret obfuscation.
type SecretCipher interface {
	// Obfuscate transforms a plaintext secret into its stored form.
	Obfuscate(plaintext string) (string, error)

	// Reveal inverts Obfuscate. Returns ErrSecretUnavailable for the
	// placeholder marker.
	Reveal(obfuscated string) (string, error)
}
