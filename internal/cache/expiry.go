package cache

import "time"

const (
	ExpiryDefaultInMemory   = 30 * time.Minute
	CleanupIntervalInMemory = 10 * time.Minute
)
