package main

import (
	"encoding/base64"
	"fmt"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/internal/config"
	"github.com/aretw0/graft/pkg/adapters/file"
	"github.com/aretw0/graft/pkg/adapters/memory"
	"github.com/aretw0/graft/pkg/adapters/redis"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/persistence/middleware"
	"github.com/aretw0/graft/pkg/ports"
)

// newWorkspace builds a workspace over an in-memory host, with the snapshot store
// and locker selected by cfg. The returned close function releases the store.
func newWorkspace(cfg *config.Config, hooks ...domain.CommitHooks) (*graft.Workspace, func() error, error) {
	opts := []graft.Option{
		graft.WithLogger(logger),
		graft.WithHooks(domain.ChainHooks(hooks...)),
	}
	closeFn := func() error { return nil }

	var store ports.SnapshotStore
	switch cfg.Store.Driver {
	case "", "memory":
		store = memory.NewStore()
	case "file":
		store = file.New(cfg.Store.Dir)
		logger.Info("Using file snapshot store", "dir", cfg.Store.Dir)
	case "redis":
		var storeOpts []redis.Option
		if cfg.Store.TTL > 0 {
			storeOpts = append(storeOpts, redis.WithTTL(cfg.Store.TTL))
		}
		if cfg.Store.Redis.Prefix != "" {
			storeOpts = append(storeOpts, redis.WithPrefix(cfg.Store.Redis.Prefix))
		}
		rs := redis.New(cfg.Store.Redis.Addr, cfg.Store.Redis.Password, cfg.Store.Redis.DB, storeOpts...)
		if cfg.Store.Redis.Lock {
			opts = append(opts, graft.WithLocker(redis.NewLocker(rs.Client(), "graft:"), cfg.Store.Redis.LockTTL))
		}
		store = rs
		closeFn = rs.Close
		logger.Info("Using redis snapshot store", "addr", cfg.Store.Redis.Addr, "lock", cfg.Store.Redis.Lock)
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q (want memory, file or redis)", cfg.Store.Driver)
	}

	var mws []middleware.Middleware
	if len(cfg.Store.Redact) > 0 {
		mws = append(mws, middleware.NewRedactMiddleware(cfg.Store.Redact))
	}
	if cfg.Store.EncryptionKey != "" {
		key, err := base64.StdEncoding.DecodeString(cfg.Store.EncryptionKey)
		if err != nil || len(key) != 32 {
			return nil, nil, fmt.Errorf("store encryption key must be 32 bytes of base64")
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	opts = append(opts, graft.WithStore(middleware.Chain(store, mws...)))

	backend := memory.New()
	rd := graft.New(backend, opts...)
	ws := graft.NewWorkspace(rd, func() ports.Node { return backend.NewRoot("body") })
	return ws, closeFn, nil
}
