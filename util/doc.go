// Package util provides small generic helpers shared across todokit:
// optional values for partial payloads, pointer helpers and secret masking.
package util
