// Package session models visitor sessions and their persistence.
//
// A [Session] carries string values, the logged-in user and the user's
// permission groups. [CacheStore] persists sessions through pkg/cache,
// either in process memory or in Redis, and indexes them by cookie token
// and by user so that "log out everywhere" is a single call.
//
// [Locker] serializes requests that share a session. Single-use values
// kept in the session, such as form tokens, depend on it: without the
// lock two concurrent requests could load the same snapshot and both
// consume the same token.
package session
