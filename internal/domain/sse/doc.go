// Package sse defines the wire event model published to SSE subscribers and
// the declarative registry mapping domain events to SSE event types (§4.5).
package sse
