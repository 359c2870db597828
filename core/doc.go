// Package core contains the relay's canonical contracts, configuration, and
// payment domain values. Lower-level adapters must depend on this package;
// core must not depend on provider-specific or transport-specific adapters.
package core
