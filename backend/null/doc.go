// SPDX-License-Identifier: EPL-2.0

// Package null is a voice backend without an audio device. A loaded clip
// "plays" for its duration on the wall clock, so pool reuse behaves as it
// would with real output. Used by the CLI in headless mode and by tests.
package null
