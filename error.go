// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports a malformed call: a key outside [0,255],
	// or a descriptor the stepper cannot resume. Never retried.
	ErrInvalidArgument = errors.New("coop: invalid argument")

	// ErrAllocation reports that a task's output buffer could not be
	// allocated. Task creation is aborted; the core does not retry.
	ErrAllocation = errors.New("coop: buffer allocation failed")

	// ErrStaleHandle reports a buffer handle whose region was already
	// released. It wraps ErrInvalidArgument.
	ErrStaleHandle = fmt.Errorf("%w: stale buffer handle", ErrInvalidArgument)

	// ErrNotRegistered is returned by Open with only Takeover set when no
	// arena is registered under the name.
	ErrNotRegistered = errors.New("coop: resource type not registered")

	// ErrAlreadyRegistered is returned by Open with only Create set when an
	// arena is already registered under the name.
	ErrAlreadyRegistered = errors.New("coop: resource type already registered")
)
