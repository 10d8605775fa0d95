// Package router resolves requests to route results by literal path prefix
// and exposes the outcome to the rest of a middleware chain.
//
// A Router maps a request to a Result, which is exactly one of:
//
//   - Success: a route matched; it carries an action name, the method and
//     usually the handler to run
//   - NotFound: nothing recognised the path
//   - MethodNotAllowed: the path is known, the method is not
//
// Delegating composes routers by prefix. For a request to
// "/foo/bar/baz.json" it tries the routers registered for "/foo/bar/baz",
// "/foo/bar", "/foo" and "/" in that order and returns the first result that
// is not NotFound, falling back to its default router:
//
//	api := router.NewTable()
//	api.HandleFunc("GET", "/api/users", "users.list", listUsers)
//
//	site := router.NewDelegating(router.NewTable())
//	if err := site.DelegateTo("/api", api); err != nil {
//		log.Fatal(err)
//	}
//
// Everything from the first "." in the path is ignored for prefix matching,
// so "/api/users.json" is matched against "/api/users", "/api" and "/".
//
// Middleware runs a Router, stores the Result on the request (see
// ResultFrom) and either answers not-found / method-not-allowed results with
// dedicated handlers or passes the request on. Dispatcher is a terminal
// handler that runs the matched handler:
//
//	rm := router.NewMiddleware(site).WithNotFound(notFoundPage)
//	stack := kernel.New(router.Dispatcher{}).Add(rm)
//	http.ListenAndServe(":8080", stack)
//
// Table and MuxRouter are leaf routers: Table matches literal paths and
// methods, MuxRouter delegates to an http.ServeMux with Go 1.22 patterns.
//
// Register routes and delegates before serving; routing itself takes no
// locks and is safe for concurrent use afterwards.
package router
