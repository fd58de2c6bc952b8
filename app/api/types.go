package api

import (
	"context"

	"newsriver/app/database"
	"newsriver/app/importer"
	"newsriver/app/tasks"
)

// ImportRunner triggers one import run over the configured OPML
// directory. Implemented by the importer; narrowed here so handlers can
// be tested without filesystem fixtures.
type ImportRunner interface {
	Run(ctx context.Context, force bool) (*importer.Stats, error)
}

var _ ImportRunner = (*importer.Importer)(nil)

type Handler struct {
	publisherRepo database.PublisherRepository
	sourceRepo    database.SourceRepository
	articleRepo   database.ArticleRepository
	importRunner  ImportRunner
	scheduler     tasks.TaskSchedulerInterface
}
