package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bolivianotech/consulta-aulas-backend/internal/config"
	"github.com/bolivianotech/consulta-aulas-backend/internal/model"
	"github.com/bolivianotech/consulta-aulas-backend/internal/repository"
	"github.com/bolivianotech/consulta-aulas-backend/internal/schema"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const suggestionLimit = 5

// LookupService serves the public schedule queries. The distinct teacher and
// subject catalogs are cached in Redis; a cache failure degrades to direct
// database reads and never fails a request.
type LookupService struct {
	assignmentRepo *repository.AssignmentRepository
	rdb            *redis.Client
	cacheTTL       time.Duration
	log            zerolog.Logger
}

// NewLookupService creates a new LookupService.
func NewLookupService(assignmentRepo *repository.AssignmentRepository, rdb *redis.Client, cacheTTL time.Duration, log zerolog.Logger) *LookupService {
	return &LookupService{
		assignmentRepo: assignmentRepo,
		rdb:            rdb,
		cacheTTL:       cacheTTL,
		log:            log.With().Str("component", "lookup_service").Logger(),
	}
}

// Docentes returns teacher names matching q, or the full catalog when q is
// empty.
func (s *LookupService) Docentes(ctx context.Context, q string) ([]string, error) {
	if strings.TrimSpace(q) == "" {
		return s.CatalogDocentes(ctx)
	}
	return s.assignmentRepo.SearchDocentes(ctx, q)
}

// Sugerencias returns autocomplete suggestions once the term has at least
// two characters; shorter terms yield empty lists.
func (s *LookupService) Sugerencias(ctx context.Context, q string) (docentes, materias []string, err error) {
	if len([]rune(strings.TrimSpace(q))) < 2 {
		return []string{}, []string{}, nil
	}

	docentes, err = s.assignmentRepo.SuggestDocentes(ctx, q, suggestionLimit)
	if err != nil {
		return nil, nil, err
	}
	materias, err = s.assignmentRepo.SuggestMaterias(ctx, q, suggestionLimit)
	if err != nil {
		return nil, nil, err
	}
	return docentes, materias, nil
}

// Consulta runs the main schedule lookup: teacher match first, subject
// fallback. criterio reports which field matched. The shift filter narrows
// the chosen result set afterwards, so criterio still names what matched
// even when the filter leaves nothing.
func (s *LookupService) Consulta(ctx context.Context, q, turno string) (results []model.Assignment, criterio string, err error) {
	results, err = s.assignmentRepo.SearchByDocente(ctx, q)
	if err != nil {
		return nil, "", err
	}
	criterio = "docente"

	if len(results) == 0 {
		results, err = s.assignmentRepo.SearchByMateria(ctx, q)
		if err != nil {
			return nil, "", err
		}
		criterio = "materia"
	}

	if t := schema.NormalizeTurno(turno); t != "" {
		filtered := results[:0]
		for _, a := range results {
			if a.Turno == t {
				filtered = append(filtered, a)
			}
		}
		results = filtered
	}

	return results, criterio, nil
}

// Aulas returns schedule rows filtered by shift, subject and classroom.
func (s *LookupService) Aulas(ctx context.Context, turno, materia, aula string) ([]model.Assignment, error) {
	return s.assignmentRepo.FilterAulas(ctx, turno, materia, aula)
}

// CatalogDocentes returns the distinct teacher catalog, preferring the Redis
// copy.
func (s *LookupService) CatalogDocentes(ctx context.Context) ([]string, error) {
	return s.catalog(ctx, config.CacheKey.DocentesCatalogKey(), s.assignmentRepo.ListDocentes)
}

// CatalogMaterias returns the distinct subject catalog, preferring the Redis
// copy.
func (s *LookupService) CatalogMaterias(ctx context.Context) ([]string, error) {
	return s.catalog(ctx, config.CacheKey.MateriasCatalogKey(), s.assignmentRepo.ListMaterias)
}

// Stats returns the dataset counters used by the health endpoint, preferring
// the short-lived Redis copy.
func (s *LookupService) Stats(ctx context.Context) (*model.DatasetStats, error) {
	key := config.CacheKey.DatasetStatsKey()
	if data, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
		var st model.DatasetStats
		if json.Unmarshal(data, &st) == nil {
			return &st, nil
		}
	}

	total, err := s.assignmentRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	docentes, err := s.assignmentRepo.CountDocentes(ctx)
	if err != nil {
		return nil, err
	}

	st := &model.DatasetStats{TotalAsignaciones: total, TotalDocentes: docentes}
	if payload, err := json.Marshal(st); err == nil {
		if err := s.rdb.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Stats cache write failed")
		}
	}
	return st, nil
}

// PrewarmCatalogs loads the lookup catalogs into Redis on startup so the
// first public queries never hit a cold cache.
func (s *LookupService) PrewarmCatalogs(ctx context.Context) error {
	docentes, err := s.assignmentRepo.ListDocentes(ctx)
	if err != nil {
		return fmt.Errorf("list docentes: %w", err)
	}
	materias, err := s.assignmentRepo.ListMaterias(ctx)
	if err != nil {
		return fmt.Errorf("list materias: %w", err)
	}

	docJSON, err := json.Marshal(docentes)
	if err != nil {
		return fmt.Errorf("marshal docentes: %w", err)
	}
	matJSON, err := json.Marshal(materias)
	if err != nil {
		return fmt.Errorf("marshal materias: %w", err)
	}

	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, config.CacheKey.DocentesCatalogKey(), docJSON, s.cacheTTL)
	pipe.Set(ctx, config.CacheKey.MateriasCatalogKey(), matJSON, s.cacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}

	s.log.Info().
		Int("docentes", len(docentes)).
		Int("materias", len(materias)).
		Msg("Lookup catalogs prewarmed")
	return nil
}

// InvalidateCatalogs drops the cached catalogs and counters after a dataset
// mutation. Failures only log; the next read falls back to the database.
func (s *LookupService) InvalidateCatalogs(ctx context.Context) {
	err := s.rdb.Del(ctx,
		config.CacheKey.DocentesCatalogKey(),
		config.CacheKey.MateriasCatalogKey(),
		config.CacheKey.DatasetStatsKey(),
	).Err()
	if err != nil {
		s.log.Warn().Err(err).Msg("Catalog cache invalidation failed")
	}
}

func (s *LookupService) catalog(ctx context.Context, key string, load func(context.Context) ([]string, error)) ([]string, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var list []string
		if json.Unmarshal(data, &list) == nil {
			return list, nil
		}
		s.log.Warn().Str("key", key).Msg("Corrupt catalog cache entry, reloading")
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Str("key", key).Msg("Catalog cache read failed, using database")
	}

	list, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(list); err == nil {
		if err := s.rdb.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("Catalog cache write failed")
		}
	}
	return list, nil
}
