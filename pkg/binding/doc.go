// Package binding serves sign-up view models over WebSocket.
//
// Every connection gets its own view model and its own reactive.Loop, so
// all field writes, reasons deliveries and submit transitions of one form
// happen on a single goroutine. The username service is shared.
//
// Routes:
//
//	GET /healthz   liveness probe
//	GET /metrics   Prometheus metrics
//	GET /ws        form binding
//
// Client messages:
//
//	{"type":"set","field":"email","value":"a@gmail.com"}
//	{"type":"set","field":"emailConfirmation","value":"a@gmail.com"}
//	{"type":"set","field":"termsAccepted","value":true}
//	{"type":"submit"}
//
// Server messages carry a type of reasons, state, completed, failed or
// rejected. See ServerMessage.
package binding
