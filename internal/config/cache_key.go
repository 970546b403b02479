package config

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// DocentesCatalogKey returns the cache key for the distinct teacher catalog.
func (r *CacheKeyStruct) DocentesCatalogKey() string {
	return "catalog:docentes"
}

// MateriasCatalogKey returns the cache key for the distinct subject catalog.
func (r *CacheKeyStruct) MateriasCatalogKey() string {
	return "catalog:materias"
}

// DatasetStatsKey returns the cache key for the health statistics counters.
func (r *CacheKeyStruct) DatasetStatsKey() string {
	return "catalog:stats"
}

var CacheKey = NewCacheKeyStruct()
