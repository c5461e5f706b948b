// Package cache keeps the folder listing in Redis so sidebars can refresh cheaply.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"snipdesk/internal/config"
	"snipdesk/internal/model"
)

const (
	versionKey = "folders:version"
	foldersTTL = 5 * time.Minute
)

// listKey holds the listing computed under one version.
func listKey(version int64) string {
	return "folders:list:" + strconv.FormatInt(version, 10)
}

// FolderCache stores the result of listing folders. Every invalidation starts a new
// version, so a listing read from the database before an invalidation is never served.
type FolderCache interface {
	// GetFolders reports ok=false on a miss. The version is what SetFolders must be given.
	GetFolders(ctx context.Context) (folders []model.Folder, version int64, ok bool, err error)
	SetFolders(ctx context.Context, version int64, folders []model.Folder) error
	InvalidateFolders(ctx context.Context) error
}

// kv is the part of redis.Cmdable the cache uses.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// RedisFolderCache is a FolderCache backed by Redis.
type RedisFolderCache struct {
	client kv
	ttl    time.Duration
}

// NewRedisFolderCache connects to Redis and verifies the connection with a ping.
func NewRedisFolderCache(ctx context.Context, cfg config.RedisConfig) (*RedisFolderCache, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisFolderCache{client: client, ttl: foldersTTL}, client, nil
}

func (c *RedisFolderCache) GetFolders(ctx context.Context) ([]model.Folder, int64, bool, error) {
	version, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		version, err = 0, nil
	}
	if err != nil {
		return nil, 0, false, err
	}

	raw, err := c.client.Get(ctx, listKey(version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}
	var folders []model.Folder
	if err := json.Unmarshal(raw, &folders); err != nil {
		return nil, version, false, fmt.Errorf("decode cached folders: %w", err)
	}
	return folders, version, true, nil
}

func (c *RedisFolderCache) SetFolders(ctx context.Context, version int64, folders []model.Folder) error {
	raw, err := json.Marshal(folders)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listKey(version), raw, c.ttl).Err()
}

// InvalidateFolders moves to the next version. Listings of older versions expire on their own.
func (c *RedisFolderCache) InvalidateFolders(ctx context.Context) error {
	return c.client.Incr(ctx, versionKey).Err()
}

// Nop is a FolderCache that always misses.
type Nop struct{}

func (Nop) GetFolders(context.Context) ([]model.Folder, int64, bool, error) { return nil, 0, false, nil }
func (Nop) SetFolders(context.Context, int64, []model.Folder) error         { return nil }
func (Nop) InvalidateFolders(context.Context) error                         { return nil }
