// renderer/errors.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import "errors"

var (
	ErrAlreadyBegun   = errors.New("Begin called while a pass is already open")
	ErrBadCapture     = errors.New("invalid capture")
	ErrBatchFull      = errors.New("pass quad capacity exceeded")
	ErrDisposed       = errors.New("sprite batch has been disposed")
	ErrInvalidConfig  = errors.New("invalid sprite batch configuration")
	ErrInvalidTexture = errors.New("texture has non-positive dimensions")
	ErrNilFont        = errors.New("nil font")
	ErrNilTexture     = errors.New("nil texture")
	ErrNoColors       = errors.New("no colors given")
	ErrNotBegun       = errors.New("no pass is open")
	ErrTooFewPoints   = errors.New("too few points")
)
