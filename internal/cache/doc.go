// Package cache is the local relational store of the desktop shell.
//
// It owns one SQLite file (pure-Go driver, foreign keys on, WAL journal),
// applies the embedded migrations when it is opened and hands out
// repositories for users, projects, conversations, messages, project files
// and settings. Referential rules, value domains and derived columns are
// enforced by the schema itself, so every repository and every ad-hoc
// statement is subject to them.
//
// Typical usage:
//
//	c, err := cache.Open(ctx, cache.Options{Path: path}, logger)
//	if err != nil { ... }
//	defer c.Close()
//
//	err = c.WithTx(ctx, func(ctx context.Context, r *cache.Repos) error {
//	    if err := r.Conversations.Create(ctx, conv); err != nil {
//	        return err
//	    }
//	    return r.Messages.Create(ctx, msg)
//	})
//
// Rows whose synced_at is NULL have local changes a remote store has not
// seen yet; Pending collects them.
package cache
