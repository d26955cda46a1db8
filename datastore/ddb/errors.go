/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	stderrors "errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/suparena/gridstore/errors"
)

var authenticationCodes = map[string]struct{}{
	"UnrecognizedClientException": {},
	"InvalidSignatureException":   {},
	"AccessDeniedException":       {},
	"ExpiredTokenException":       {},
	"MissingAuthenticationToken":  {},
}

func wrapError(op, username string, err error) error {
	if err == nil || errors.IsStorageError(err) || errors.IsValidationError(err) || errors.IsAuthenticationError(err) {
		return err
	}
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		if _, ok := authenticationCodes[apiErr.ErrorCode()]; ok {
			return errors.NewAuthenticationError(backendName, username, err)
		}
		return &errors.StorageError{
			Backend:   backendName,
			Operation: op,
			Status:    apiErr.ErrorCode(),
			Reason:    apiErr.ErrorMessage(),
			Err:       err,
		}
	}
	return errors.NewStorageError(backendName, op, err)
}

// cancelledItem returns the position of the first rejected item of a
// cancelled transaction.
func cancelledItem(err error) (int, bool) {
	var tce *types.TransactionCanceledException
	if !stderrors.As(err, &tce) {
		return 0, false
	}
	for i, reason := range tce.CancellationReasons {
		if reason.Code != nil && *reason.Code != "None" {
			return i, true
		}
	}
	return 0, false
}
