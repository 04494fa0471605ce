// Copyright ©2025 The Weft Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package weft provides a hardware-abstraction layer for small-tile
// matrix multiply-accumulate acceleration.
//
// A Fragment holds one matrix tile in per-lane register state,
// distributed across a 32-lane cooperative group. Fragments are
// described by element type, matrix role (A, B or accumulator), tile
// shape and memory layout; the set of valid combinations is a closed,
// exhaustively enumerated table, and everything outside it is rejected
// when the fragment is constructed.
//
// Collective operations move tiles and compose them:
//   - Load and Store stride tiles between memory and register state
//   - Mad computes D = A*B + C as a single tile instruction
//   - Fill splats one value across a fragment
//
// Execution goes through pluggable matrix units. The software warp
// engine implements the full instruction set in pure Go and is always
// available; native units advertise what they implement and reject the
// rest with a uniform unsupported error, so callers can probe
// capability before committing to a data layout.
package weft
