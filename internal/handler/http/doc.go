// Package http implements the HTTP transport layer of the accounts service.
//
// Two route groups are exposed: /internal/* for trusted service-to-service
// calls from the auth service, and /api/* for gateway-mediated external
// traffic. The gateway authenticates callers and injects their identity as
// the X-Account-ID and X-Account-Type headers; this layer extracts that
// identity, decodes and validates request shapes, and delegates every
// decision to the service layer. Cross-cutting concerns — request tracing,
// access logging, panic recovery — are handled here as middleware.
package http
