// SPDX-License-Identifier: MPL-2.0

// Package httpclient owns the single HTTP client shared by every http.get and
// http.post call of a script session.
//
// The client sits behind an exclusive-access cell: a call takes the lock,
// issues exactly one request, reads the whole body and releases the lock before
// returning. A call that panics while holding the lock poisons the cell, and
// every later call fails with ErrClientUnavailable instead of touching the
// client again.
package httpclient
