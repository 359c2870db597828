// Package webhooks contains delivery authentication components.
//
// Verification is a fail-closed gate: a delivery body is never parsed or
// interpreted until its signature over the raw received bytes has been
// checked.
package webhooks
