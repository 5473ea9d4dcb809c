// Package cache provides the byte caches behind moodboard's slower lookups.
//
// [Cache] has three backends: [NullCache] (disabled), [FileCache] (the CLI
// default under the user cache directory) and [RedisCache] (shared by server
// instances). Keys come from a [Keyer]; wrap it in a [ScopedKeyer] to keep
// values produced under different settings apart.
package cache
