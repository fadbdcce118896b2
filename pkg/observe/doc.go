// Package observe provides action middleware and stream hooks for metrics,
// tracing and logging.
//
// Every constructor returns a reactive.Middleware that can be passed to
// reactive.ActionMiddleware or signup.WithActionMiddleware:
//
//	vm := signup.New(svc,
//	    signup.WithActionMiddleware(
//	        observe.Tracing(),
//	        observe.Prometheus(),
//	        observe.Logging(logger),
//	    ),
//	)
//	observe.CountRequests(vm.Requests())
//
// The first middleware is the outermost.
package observe
