// Package providers contains the external service clients the relay talks
// to: the payment processor's verification API, the outbound mail API, and
// the commerce backend's order API.
package providers
