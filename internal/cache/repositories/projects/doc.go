// Package projects persists projects, the optional grouping of
// conversations and files.
//
// Deleting a project detaches its conversations (project_id becomes NULL)
// and removes its files; both effects are enforced by foreign keys in the
// schema, not by this package.
//
//	repo := projects.NewSQLiteRepository(db)
//	_ = repo.Create(ctx, &models.Project{Name: "Q3 planning"})
//	all, _ := repo.GetAll(ctx)
package projects
