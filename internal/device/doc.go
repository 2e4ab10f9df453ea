// Package device provides the live registry of discovered mmWave switches.
//
// The registry owns every device record: discovery creates one, each
// relevant inbound message mutates one, and the periodic staleness sweep
// destroys them after an hour of silence. State is rebuilt entirely from
// traffic; there is no persistence.
//
// # Concurrency
//
// One mutex guards the whole store. Operations are mutually exclusive for
// their duration; snapshots return deep copies. No registry method calls
// back into broadcast code while holding the lock. Callers copy state out,
// then emit.
package device
