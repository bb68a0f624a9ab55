// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "errors"

var (
	ErrInvalidMove         = errors.New("ErrInvalidMove")
	ErrZeroWager           = errors.New("ErrZeroWager")
	ErrWagerMismatch       = errors.New("ErrWagerMismatch")
	ErrGameAlreadyExists   = errors.New("ErrGameAlreadyExists")
	ErrGameNotFound        = errors.New("ErrGameNotFound")
	ErrUnauthorized        = errors.New("ErrUnauthorized")
	ErrDuplicateHold       = errors.New("ErrDuplicateHold")
	ErrInsufficientEscrow  = errors.New("ErrInsufficientEscrow")
	ErrAlreadyReleased     = errors.New("ErrAlreadyReleased")
	ErrHostIsOpponent      = errors.New("ErrHostIsOpponent")
	ErrMultipleDenoms      = errors.New("ErrMultipleDenoms")
	ErrDenomNotAllowed     = errors.New("ErrDenomNotAllowed")
	ErrWagerTooLarge       = errors.New("ErrWagerTooLarge")
	ErrPartialRelease      = errors.New("ErrPartialRelease")
	ErrAlreadyInstantiated = errors.New("ErrAlreadyInstantiated")
	ErrNotInstantiated     = errors.New("ErrNotInstantiated")
	ErrContractMismatch    = errors.New("ErrContractMismatch")
	ErrSchemaDowngrade     = errors.New("ErrSchemaDowngrade")
)
