// Package clipboard reads and writes clipboard text, and implements the
// clipboard round-trip: read the live clipboard, find a fix, and write it
// back exactly once.
package clipboard
