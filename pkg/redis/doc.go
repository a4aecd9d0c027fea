// Package redis connects to the optional Redis server that backs shared rate
// limit state when the registration service runs with more than one replica.
//
// Connect retries the initial ping according to Config, and Healthcheck turns
// a client into a readiness probe:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	checks["redis"] = redis.Healthcheck(client)
//
// Errors wrap the package sentinels so callers can match them with errors.Is.
package redis
