package cache

import (
	"fmt"
	"log"

	"github.com/mitchellh/mapstructure"
	"github.com/rehiko/picstash/cache/memory"
	"github.com/rehiko/picstash/cache/redis"
	"github.com/rehiko/picstash/config"
)

// 默认内存缓存参数
const (
	defaultNumCounters = 1000000
	defaultMaxCost     = 256 << 20 // 256MB
	defaultBufferItems = 64
)

// NewProvider 根据配置创建缓存提供者
func NewProvider(cfg *config.Config) (Provider, error) {
	options := providerOptions(cfg)

	switch cfg.CacheType {
	case "memory", "":
		var memCfg memory.Config
		if err := mapstructure.Decode(options, &memCfg); err != nil {
			return nil, fmt.Errorf("failed to decode memory cache options: %w", err)
		}
		provider, err := memory.NewMemory(memCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create memory cache: %w", err)
		}
		log.Println("Using in-memory cache provider")
		return provider, nil

	case "redis":
		var redisCfg redis.Config
		if err := mapstructure.Decode(options, &redisCfg); err != nil {
			return nil, fmt.Errorf("failed to decode redis cache options: %w", err)
		}
		provider, err := redis.NewRedis(redisCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis cache: %w", err)
		}
		log.Printf("Using redis cache provider at %s", redisCfg.Addr)
		return provider, nil

	default:
		return nil, fmt.Errorf("unsupported cache provider type: %s", cfg.CacheType)
	}
}

// providerOptions 收集 provider 的原始选项，统一交给 mapstructure 解码
func providerOptions(cfg *config.Config) map[string]interface{} {
	return map[string]interface{}{
		"num_counters": int64(defaultNumCounters),
		"max_cost":     int64(defaultMaxCost),
		"buffer_items": int64(defaultBufferItems),
		"metrics":      false,
		"addr":         cfg.CacheRedisAddr,
		"password":     cfg.CacheRedisPassword,
		"db":           cfg.CacheRedisDB,
	}
}
