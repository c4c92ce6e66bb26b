// Package cache provides the bounded LRU cache that holds translated shader
// sources.
//
// Translation is deterministic for a given stage, source and target, so a
// source submitted again (the same shader compiled by several programs, or
// a program rebuilt after a context loss) is served without running the
// external compiler and decompiler again.
//
//	c := cache.New[Key, string](256)
//	c.Set(key, translated)
//	src, ok := c.Get(key)
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
