// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// ErrInvalidPathParam is returned when a path parameter cannot be unescaped
// or is empty.
var ErrInvalidPathParam = errors.New("invalid path parameter")
