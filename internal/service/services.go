package service

import (
	"go.uber.org/zap"

	"github.com/dom/catalog-facade/internal/config"
	"github.com/dom/catalog-facade/internal/domain"
	"github.com/dom/catalog-facade/internal/snapshot"
)

type Services struct {
	Catalog *CatalogService
	Comment *CommentService
}

func NewServices(remote RemoteSource, snap *snapshot.Snapshot, cfg *config.Config, logger *zap.Logger) *Services {
	return &Services{
		Catalog: NewCatalogService(remote, snapshot.NewResolver(snap), cfg.Entities, logger.Named("catalog")),
		Comment: NewCommentService(remote, cfg.Entities[domain.KindComment], logger.Named("comment")),
	}
}
