// Package inbound accepts webhook deliveries from the payment processor and
// runs each one through a single-pass pipeline: signature verification over
// the raw body, payload parsing, an optional transaction re-check against the
// processor API, and the configured downstream action. Deliveries are not
// persisted or retried; a rejected delivery is reported back to the sender
// with a status code that tells it whether redelivery is worthwhile.
package inbound
