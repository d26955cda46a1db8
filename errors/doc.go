/*
Package errors provides the error taxonomy shared by every grid dialect.

The package defines one sentinel per failure class; typed errors match their
sentinel through errors.Is and unwrap to the backend cause.

Common Errors:

	var (
	    ErrStorage               = errors.New("storage failure")
	    ErrAuthentication        = errors.New("authentication failed")
	    ErrUnsupportedCapability = errors.New("capability not supported by backend")
	    ErrMappingConfiguration  = errors.New("invalid mapping configuration")
	    ErrInvalidInput          = errors.New("invalid input")
	)

Usage:

	tuple, err := dialect.GetTuple(ctx, key)
	if err != nil {
	    if errors.IsStorageError(err) {
	        // retry the unit of work
	    }
	    return err
	}
	if tuple == nil {
	    // absent rows are not errors
	}

Adapters never retry internally; the caller owning the unit of work decides
between retry and rollback. A missing row is reported as a nil result, never
as an error.
*/
package errors
