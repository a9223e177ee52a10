// Package kvstore contains implementations of [model.KeyValueStore].
//
// The command line tool uses [*FS] to persist state below the state
// directory, while tests use [*Memory].
package kvstore
