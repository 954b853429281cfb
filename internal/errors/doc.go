// Package errors provides structured errors for the arena project.
//
// Every error carries a Code, a user-facing Message, an optional Cause and
// free-form metadata. The combat packages put their error kind in the
// metadata so the shell can branch on it without type switches.
//
// # Basic Usage
//
// Creating errors:
//
//	err := errors.NotFoundf("character %d not found", id)
//	err := errors.InvalidArgumentf("invalid attack power: %d", power)
//
// Adding metadata:
//
//	err := errors.AlreadyExistsf("name %s already taken", name).
//	    WithMeta("kind", "duplicate_name").
//	    WithMeta("name", name)
//
// Wrapping errors keeps the code and metadata of the cause:
//
//	if _, err := repo.Save(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to record battle")
//	}
//
// # Error Checking
//
//	if errors.IsNotFound(err) {
//	    // Handle not found case
//	}
//
//	code := errors.GetCode(err)
//	message := errors.GetMessage(err)
//	kind := errors.GetMetaString(err, "kind")
//
// # Validation Errors
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("name", input.Name, vb)
//	errors.ValidateMin("health", input.Health, 1, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// # Error Codes
//
//   - NotFound: Resource not found
//   - InvalidArgument: Invalid input provided
//   - AlreadyExists: Resource already exists
//   - PermissionDenied: Caller may not perform the operation right now
//   - FailedPrecondition: Operation requirements not met
//   - Internal: Internal error
//   - Unavailable: Backing store temporarily unavailable
package errors
