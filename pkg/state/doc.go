// Package state owns per-form field state: current values, defaults,
// dirty/touched flags and validation errors. A Controller is the single
// writer for that state; renderers and the dynamic form hold a pointer to it
// and read through snapshots or subscriptions.
package state
