// Package authz is the authorization collaborator: it decides whether an
// identity holds the verifier capability. The registry consumes the boolean
// and keeps no access-control logic of its own.
package authz

import "context"

// Authorizer answers capability checks for authenticated subjects.
type Authorizer interface {
	IsVerifier(ctx context.Context, subject string) (bool, error)
}
