// Package flock provides cross-platform file locking utilities.
//
// Lattice uses an exclusive, non-blocking lock on a file in the lattice
// home to ensure only one pipeline run at a time touches the shared run
// state. The low-level Exclusive/Unlock pair wraps the platform locking
// primitive; Acquire layers the lock-file lifecycle on top.
//
// Usage:
//
//	lock, err := flock.Acquire(path)
//	if err != nil {
//	    // Lock not acquired - another run is in progress
//	}
//	defer lock.Release()
package flock
