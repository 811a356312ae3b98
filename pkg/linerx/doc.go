// Package linerx accumulates bytes delivered one at a time by a receive
// interrupt into a bounded line buffer and hands completed lines to the
// main loop.
//
// The producer (interrupt context) is the only writer of the buffer and
// cursor while the ready flag is clear. Completing a line sets the flag
// with release semantics and masks further delivery through the Gate.
// The consumer observes the flag with acquire semantics, copies the line
// out, resets the cursor, clears the flag and unmasks delivery. No locks
// are involved; the flag is the only rendezvous.
package linerx
