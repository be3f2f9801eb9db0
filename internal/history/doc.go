// Package history provides the local analysis history store.
//
// The server only keeps each user's most recent jobs; the history database
// retains a snapshot of every job the client has seen, plus a record of each
// artifact download, so results remain traceable after server-side eviction.
package history
