// Package session manages conversation state: the bounded message history
// and active course for each session, JSONL transcript persistence, and the
// retention sweep that purges idle sessions.
//
// Turns within one session are serialized; the manager hands out the state
// under a per-session lock so a confirmation cannot race the call it guards.
package session
