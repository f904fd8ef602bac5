// Package digest computes hex digests of byte streams in bounded memory.
//
// The registry in algorithm.go is the closed set of supported algorithms.
// Compute and ComputeFile drive a chunk loop over a page-sized buffered
// reader, either on the caller's goroutine (Sequential) or split across a
// reading goroutine and a hashing goroutine (Pipelined). Both modes produce
// identical output for identical input.
package digest
