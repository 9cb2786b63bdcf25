// Package importer fills the catalog from the TMDB metadata API.
package importer

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"showoff/internal/models"
	"showoff/internal/tmdb"
)

// MetadataAPI is the part of the TMDB client the importer calls.
type MetadataAPI interface {
	PopularTV(ctx context.Context, page int) (*tmdb.PopularResponse, error)
	ShowDetails(ctx context.Context, showID int) (*tmdb.TVDetail, error)
	SeasonEpisodes(ctx context.Context, showID, season int) (*tmdb.Season, error)
}

// CatalogWriter stores imported records.
type CatalogWriter interface {
	UpsertShow(ctx context.Context, s *models.Show) error
	UpsertEpisode(ctx context.Context, e *models.Episode) error
	ResetRatings(ctx context.Context) (int64, error)
}

// Importer copies popular shows and their first season into the catalog.
// Failures on a single page, show or episode are logged and skipped.
type Importer struct {
	api       MetadataAPI
	catalog   CatalogWriter
	imageBase string
	logger    *zap.Logger
}

// New creates an Importer. imageBase prefixes TMDB image paths.
func New(api MetadataAPI, catalog CatalogWriter, imageBase string, logger *zap.Logger) *Importer {
	return &Importer{
		api:       api,
		catalog:   catalog,
		imageBase: imageBase,
		logger:    logger.With(zap.String("component", "importer")),
	}
}

// ImportShows upserts every show on the first pages of the popular list and
// returns how many were stored.
func (im *Importer) ImportShows(ctx context.Context, pages int) int {
	stored := 0
	for _, tv := range im.popular(ctx, pages) {
		creator := "Unknown"
		genres := []string{}
		details, err := im.api.ShowDetails(ctx, tv.ID)
		if err != nil {
			im.logger.Warn("failed to fetch show details", zap.Int("tmdb_id", tv.ID), zap.Error(err))
		} else {
			creator = details.CreatorName()
			genres = details.GenreNames()
		}

		show := &models.Show{
			ID:          strconv.Itoa(tv.ID),
			Title:       tv.Name,
			Creator:     creator,
			Description: tv.Overview,
			CoverURL:    im.imageURL(tv.PosterPath),
			Genres:      genres,
			AvgRating:   tv.VoteAverage,
			AirDate:     tv.FirstAirDate,
		}
		if err := im.catalog.UpsertShow(ctx, show); err != nil {
			im.logger.Error("failed to store show", zap.String("id", show.ID), zap.Error(err))
			continue
		}
		stored++
	}

	im.logger.Info("shows imported", zap.Int("count", stored))
	return stored
}

// ImportEpisodes upserts season 1 of every show on the first pages of the
// popular list and returns how many episodes were stored.
func (im *Importer) ImportEpisodes(ctx context.Context, pages int) int {
	stored := 0
	for _, tv := range im.popular(ctx, pages) {
		season, err := im.api.SeasonEpisodes(ctx, tv.ID, 1)
		if err != nil {
			im.logger.Warn("failed to fetch season", zap.Int("tmdb_id", tv.ID), zap.Error(err))
			continue
		}

		for _, ep := range season.Episodes {
			cover := ep.StillPath
			if cover == "" {
				cover = tv.PosterPath
			}
			episode := &models.Episode{
				ID:              strconv.Itoa(ep.ID),
				ShowName:        tv.Name,
				Title:           ep.Name,
				Description:     ep.Overview,
				DurationMinutes: ep.Runtime,
				AvgRating:       ep.VoteAverage,
				Season:          ep.SeasonNumber,
				EpisodeNumber:   ep.EpisodeNumber,
				CoverURL:        im.imageURL(cover),
			}
			if err := im.catalog.UpsertEpisode(ctx, episode); err != nil {
				im.logger.Error("failed to store episode", zap.String("id", episode.ID), zap.Error(err))
				continue
			}
			stored++
		}
	}

	im.logger.Info("episodes imported", zap.Int("count", stored))
	return stored
}

// ResetRatings zeroes every show and episode average.
func (im *Importer) ResetRatings(ctx context.Context) (int64, error) {
	n, err := im.catalog.ResetRatings(ctx)
	if err != nil {
		return n, err
	}
	im.logger.Info("ratings reset", zap.Int64("records", n))
	return n, nil
}

func (im *Importer) popular(ctx context.Context, pages int) []tmdb.TVShow {
	var shows []tmdb.TVShow
	for page := 1; page <= pages; page++ {
		resp, err := im.api.PopularTV(ctx, page)
		if err != nil {
			im.logger.Warn("failed to fetch popular page", zap.Int("page", page), zap.Error(err))
			continue
		}
		shows = append(shows, resp.Results...)
		if resp.TotalPages > 0 && page >= resp.TotalPages {
			break
		}
	}
	return shows
}

func (im *Importer) imageURL(path string) string {
	if path == "" {
		return ""
	}
	return im.imageBase + path
}
