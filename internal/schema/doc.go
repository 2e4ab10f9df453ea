// Package schema loads the switch capability manifest, normalises it into
// the model pushed to browser sessions, and validates outbound parameter
// writes against it.
//
// The manifest is a zigbee2mqtt device definition read from the first
// readable path in the configured list. When no definition is available a
// built-in fallback covering the mmWave presence controls keeps the
// service operational. The loaded schema is immutable; concurrent reads
// need no synchronisation.
package schema
