// Package cache provides a small generic LRU map.
//
// The validator keeps parsed rule expressions in one so that every field
// sharing an expression such as "required|email" parses it once:
//
//	rules := cache.NewLRU[string, []validator.Rule](256)
//	if parsed, ok := rules.Get(expr); ok {
//		return parsed
//	}
package cache
