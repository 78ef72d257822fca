// internal/resolve/errors.go
//
// Error types surfaced by configuration resolution.  A missing required
// secret is the one fatal condition the operator is expected to act on,
// so it carries the offending key and a remediation hint.
package resolve

import "fmt"

// MissingSecretError reports a runtime secret that no source supplied.
// Startup must treat it as fatal; retrying cannot help until the
// operator provides the value.
type MissingSecretError struct {
	Key string
}

func (e *MissingSecretError) Error() string {
	return fmt.Sprintf("missing required secret %s: supply it via the platform dashboard, a .env file, or Vault", e.Key)
}

// MissingVariableError reports a required non-secret variable that no
// source supplied.
type MissingVariableError struct {
	Key string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("required variable %s is not set", e.Key)
}
