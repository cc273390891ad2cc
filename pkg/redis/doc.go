// Package redis opens the go-redis client shared by the cache, the session
// store and the health endpoint.
//
//	client, err := redis.Open(ctx, redis.Config{URL: "redis://localhost:6379/0"})
//	if err != nil {
//		return err
//	}
//	app := carrier.New(
//		carrier.WithShutdownHook(redis.Shutdown(client)),
//	)
package redis
