package adapter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

var (
	clients = make(map[int]*redis.Client)
	mu      sync.RWMutex
)

// InitRedisClient connects to one logical DB and registers it for GetRedisClient.
func InitRedisClient(ctx context.Context, addr string, password string, db int) error {
	if addr == "" {
		return errors.New("Redis host is empty")
	}

	mu.Lock()
	defer mu.Unlock()

	if _, exists := clients[db]; exists {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to Redis DB %d: %w", db, err)
	}

	clients[db] = client
	return nil
}

func GetRedisClient(db int) (*redis.Client, error) {
	mu.RLock()
	defer mu.RUnlock()

	client, exists := clients[db]
	if !exists {
		return nil, fmt.Errorf("redis client for DB %d is not initialized. call InitRedisClient first", db)
	}
	return client, nil
}

func CloseRedisClients() {
	mu.Lock()
	defer mu.Unlock()

	for db, client := range clients {
		_ = client.Close()
		delete(clients, db)
	}
}
