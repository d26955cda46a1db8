/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongodb

import (
	stderrors "errors"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/suparena/gridstore/errors"
)

// authenticationFailed is the server code of a rejected credential.
const authenticationFailed = 18

func isAuthenticationError(err error) bool {
	var se mongo.ServerError
	if stderrors.As(err, &se) && se.HasErrorCode(authenticationFailed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "authentication failed") || strings.Contains(msg, "auth error")
}

// status extracts the server code and message of a MongoDB error.
func status(err error) (string, string) {
	var cmdErr mongo.CommandError
	if stderrors.As(err, &cmdErr) {
		return strconv.Itoa(int(cmdErr.Code)), cmdErr.Message
	}
	var we mongo.WriteException
	if stderrors.As(err, &we) {
		if len(we.WriteErrors) > 0 {
			return strconv.Itoa(we.WriteErrors[0].Code), we.WriteErrors[0].Message
		}
		if we.WriteConcernError != nil {
			return strconv.Itoa(we.WriteConcernError.Code), we.WriteConcernError.Message
		}
	}
	var bwe mongo.BulkWriteException
	if stderrors.As(err, &bwe) && len(bwe.WriteErrors) > 0 {
		return strconv.Itoa(bwe.WriteErrors[0].Code), bwe.WriteErrors[0].Message
	}
	return "", ""
}

func wrapError(op string, err error) error {
	if err == nil || errors.IsStorageError(err) || errors.IsValidationError(err) {
		return err
	}
	if isAuthenticationError(err) {
		return errors.NewAuthenticationError(backendName, "", err)
	}
	code, reason := status(err)
	return &errors.StorageError{
		Backend:   backendName,
		Operation: op,
		Status:    code,
		Reason:    reason,
		Err:       err,
	}
}
