// SPDX-License-Identifier: EPL-2.0

/*
Package pool holds a fixed number of voices for one category and decides
which voice the next playback gets.

Allocation never fails. An idle voice is preferred, then a voice that is
fading out, and when every voice is busy the first one is taken over:

	v, rule := p.Allocate()
	// v is Initialize()d and ready for Assign/Play

The pool itself is not synchronized; its owner serializes access.
*/
package pool
