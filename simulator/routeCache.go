package simulator

import (
	"errors"
	"sync"
	"sync/atomic"

	"citytraffic/element"
	"citytraffic/utils"
)

// ErrRouteNotFound reports that a vehicle's destination is unreachable from
// its current cell. Fatal for that vehicle only, never for the simulation.
var ErrRouteNotFound = errors.New("no route to destination")

type odKey struct {
	Origin      element.Cell
	Destination element.Cell
}

// RouteCache memoizes routes by (origin, destination). The road graph is
// static for the lifetime of a run, so entries are never invalidated.
// Lookups may run concurrently; inserts are first-writer-wins, which is
// sound because every correct search over the static graph yields an
// equally valid shortest route.
type RouteCache struct {
	mu     sync.RWMutex
	routes map[odKey][]element.Cell

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRouteCache creates an empty cache.
func NewRouteCache() *RouteCache {
	return &RouteCache{routes: make(map[odKey][]element.Cell)}
}

// Lookup returns the memoized route for the pair, counting a hit on success.
// Callers must treat the returned slice as immutable.
func (c *RouteCache) Lookup(origin, destination element.Cell) ([]element.Cell, bool) {
	c.mu.RLock()
	route, ok := c.routes[odKey{origin, destination}]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
	}
	return route, ok
}

// Insert memoizes a freshly computed route, counting a miss. If another
// writer got there first the existing entry stays.
func (c *RouteCache) Insert(origin, destination element.Cell, route []element.Cell) {
	c.misses.Add(1)
	key := odKey{origin, destination}

	c.mu.Lock()
	if _, exists := c.routes[key]; !exists {
		c.routes[key] = route
	}
	c.mu.Unlock()
}

// Stats returns the memo hit and miss totals.
func (c *RouteCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of memoized routes.
func (c *RouteCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.routes)
}

// FindRoute returns the route from origin (exclusive) to destination
// (inclusive), from the cache when possible, otherwise by searching the
// road graph and memoizing the result.
func FindRoute(net *RoadNetwork, cache *RouteCache, origin, destination element.Cell) ([]element.Cell, error) {
	if route, ok := cache.Lookup(origin, destination); ok {
		return route, nil
	}

	from, ok := net.Node(origin)
	if !ok {
		return nil, ErrRouteNotFound
	}
	to, ok := net.Node(destination)
	if !ok {
		return nil, ErrRouteNotFound
	}

	nodes, err := utils.FindPath(net.Graph, from, to)
	if err != nil {
		return nil, ErrRouteNotFound
	}

	// Drop the origin: a route runs from the start exclusive to the
	// destination inclusive.
	route := make([]element.Cell, 0, len(nodes)-1)
	for _, n := range nodes[1:] {
		route = append(route, n.(element.GridNode).Pos())
	}

	cache.Insert(origin, destination, route)
	return route, nil
}
