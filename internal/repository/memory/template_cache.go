package memory

import (
	"time"

	"notifhub-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// TemplateCache keeps rendered-template sources in memory so the dispatch
// path does not hit the database for every send.
type TemplateCache struct {
	cache *cache.Cache
}

func NewTemplateCache() *TemplateCache {
	// Templates change rarely; a short TTL keeps edits visible without
	// an explicit invalidation channel.
	c := cache.New(5*time.Minute, 10*time.Minute)
	return &TemplateCache{
		cache: c,
	}
}

// Save indexes the template under both its code and its id so the dispatch
// path (id lookups) and the event worker (code lookups) share one cache.
func (r *TemplateCache) Save(tpl *entity.NotificationTemplate) {
	if tpl == nil {
		return
	}
	r.cache.Set(tpl.Code, tpl, cache.DefaultExpiration)
	r.cache.Set(tpl.Id.String(), tpl, cache.DefaultExpiration)
}

func (r *TemplateCache) Get(code string) (*entity.NotificationTemplate, bool) {
	if x, found := r.cache.Get(code); found {
		return x.(*entity.NotificationTemplate), true
	}
	return nil, false
}

func (r *TemplateCache) Delete(code string) {
	r.cache.Delete(code)
}
