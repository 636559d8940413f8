// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package relic

import "net/http"

// RelicRouter owns a MethodRouter<Handler> plus a separate
// PathTrie<[]Middleware>, and a fallback handler (§4.7).
type RelicRouter struct {
	methods    *MethodRouter[Handler]
	middleware *PathTrie[[]Middleware]
	fallback   Handler
	methodMiss func(*Request, LookupResult[Handler]) (*RequestContext, error)
}

// NewRelicRouter builds an empty router with the default 404 fallback and
// the default 405+Allow method-miss policy.
func NewRelicRouter() *RelicRouter {
	return &RelicRouter{
		methods:    NewMethodRouter[Handler](),
		middleware: NewPathTrie[[]Middleware](),
		fallback:   defaultFallback,
	}
}

var defaultFallback Handler = func(req *Request) (*RequestContext, error) {
	return NewRequestContext(req).Respond(textResponse(http.StatusNotFound, "Not Found"))
}

func defaultMethodMiss(req *Request, result LookupResult[Handler]) (*RequestContext, error) {
	resp := textResponse(http.StatusMethodNotAllowed, "Method Not Allowed").
		WithHeader("Allow", result.Allowed.String())
	return NewRequestContext(req).Respond(resp)
}

// Handle registers h for (method, pattern).
func (r *RelicRouter) Handle(method Method, pattern string, h Handler) error {
	p, err := ParsePathPattern(pattern)
	if err != nil {
		return err
	}
	return r.methods.Add(method, p, h)
}

// HandleAnyOf registers h for every method in methods, at pattern.
func (r *RelicRouter) HandleAnyOf(methods []Method, pattern string, h Handler) error {
	p, err := ParsePathPattern(pattern)
	if err != nil {
		return err
	}
	return r.methods.AnyOf(methods, p, h)
}

// HandleAny reserves every method for pattern under a single ANY marker.
func (r *RelicRouter) HandleAny(pattern string, h Handler) error {
	p, err := ParsePathPattern(pattern)
	if err != nil {
		return err
	}
	return r.methods.Any(p, h)
}

// Use attaches mws at pathPrefix (§4.7 "use(pathPrefix, middleware)").
// Multiple calls on the same prefix accumulate, preserving call order.
func (r *RelicRouter) Use(pathPrefix string, mws ...Middleware) error {
	p, err := ParsePathPattern(pathPrefix)
	if err != nil {
		return err
	}
	node, err := r.middleware.EnsureTerminal(p)
	if err != nil {
		return err
	}
	node.hasValue = true
	node.value = append(node.value, mws...)
	return nil
}

// SetFallback overrides the handler invoked on PathMiss. The zero value
// keeps the default 404.
func (r *RelicRouter) SetFallback(h Handler) {
	if h == nil {
		h = defaultFallback
	}
	r.fallback = h
}

// SetMethodMissHandler overrides the default 405+Allow policy for MethodMiss.
func (r *RelicRouter) SetMethodMissHandler(h func(*Request, LookupResult[Handler]) (*RequestContext, error)) {
	r.methodMiss = h
}

// Dispatch resolves req against the trie and, on a match, composes the
// attached middleware around the matched handler before invoking it.
// Unmatched requests never see middleware — they go straight to the
// fallback (§4.7 "Consequences").
func (r *RelicRouter) Dispatch(req *Request) (*RequestContext, error) {
	result := r.methods.Lookup(req.Method, req.Path())

	switch {
	case result.IsMatch():
		SetProperty(req, PropertyPathParameters, NewPathParameters(result.Parameters))
		SetProperty(req, PropertyQueryParameters, NewQueryParameters(req.URI.Query()))
		SetProperty(req, PropertyRouter, r)
		SetProperty(req, PropertyMatchedPath, result.Matched)
		SetProperty(req, PropertyRemainingPath, result.Remaining)

		mws := collectMiddleware(r.middleware, result.Matched)
		handler := Compose(result.Value, mws...)
		return handler(req)

	case result.IsMethodMiss():
		miss := r.methodMiss
		if miss == nil {
			miss = defaultMethodMiss
		}
		return miss(req, result)

	default: // PathMiss
		return r.fallback(req)
	}
}

// collectMiddleware walks the middleware trie along path's literal
// segments, preferring literal > parameter > wildcard > tail children at
// each step (mirroring PathTrie's priority, but without backtracking: we
// are collecting every attachment point the match passed through, not
// searching for one terminal), and concatenates each visited node's
// middleware list in root-to-leaf order.
func collectMiddleware(trie *PathTrie[[]Middleware], path NormalizedPath) []Middleware {
	var collected []Middleware
	node := trie.Root()
	collected = append(collected, node.value...)

	for _, seg := range path.Segments() {
		next, isTail := nextMiddlewareNode(node, seg)
		if next == nil {
			break
		}
		collected = append(collected, next.value...)
		if isTail {
			break
		}
		node = next
	}
	return collected
}

func nextMiddlewareNode(node *TrieNode[[]Middleware], seg string) (next *TrieNode[[]Middleware], isTail bool) {
	if node.literal != nil {
		if child, ok := node.literal[seg]; ok {
			return child, false
		}
	}
	if node.paramNode != nil {
		return node.paramNode, false
	}
	if node.wildcard != nil {
		return node.wildcard, false
	}
	if node.tail != nil {
		return node.tail, true
	}
	return nil, false
}

// ForwardTo re-enters the router reachable from req's PropertyRouter with
// newRequest (§4.7 "Request forwarding"). newRequest carries req's token
// when it was built with req.CopyWith; ForwardTo itself neither checks nor
// sets the token. It fails
// with ErrForwardNotRouted if req carries no router property — i.e. req
// never itself went through a successful RelicRouter.Dispatch.
func ForwardTo(req *Request, newRequest *Request) (*RequestContext, error) {
	router, ok := GetProperty(req, PropertyRouter)
	if !ok {
		return nil, ErrForwardNotRouted
	}
	return router.Dispatch(newRequest)
}
