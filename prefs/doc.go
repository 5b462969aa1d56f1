// SPDX-License-Identifier: EPL-2.0

/*
Package prefs persists the user's volume and mute choice per category.

Three stores are provided:

	prefs.NewMemory()                      // process lifetime only
	prefs.OpenFile("prefs.yaml")           // YAML on disk
	prefs.OpenSQL("sqlite", "prefs.db")    // gorm, sqlite or mysql

Values that were never stored read back as DefaultVolume and DefaultMute.
*/
package prefs
