package model

import "errors"

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidAddress  = errors.New("invalid address")
	ErrRequestNotFound = errors.New("withdraw request not found")
	ErrTxNotFound      = errors.New("transaction record not found")
	ErrInvalidStatus   = errors.New("invalid request status")
	ErrAlreadyDecided  = errors.New("request already decided")
	ErrNoSigner        = errors.New("no signing key configured")
	ErrNotOwner        = errors.New("signer is not the pool owner")
	ErrNotAllowlisted  = errors.New("address is not allowlisted")
)
