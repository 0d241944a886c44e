package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/commhub/message-service/internal/model"
	"github.com/commhub/message-service/internal/pkg/cachekey"
)

type SearchService struct {
	index SearchIndex
	cache Cache
}

func NewSearchService(index SearchIndex, cache Cache) *SearchService {
	return &SearchService{
		index: index,
		cache: cache,
	}
}

// SearchMessages serves fuzzy content search within one conversation. Result
// pages are cached under the normalized term so equivalent spellings of a
// query share an entry.
func (s *SearchService) SearchMessages(ctx context.Context, conversationID, term string, page, limit int) (*model.MessagePage, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if page <= 0 {
		page = model.DefaultPage
	}
	if limit <= 0 {
		limit = model.DefaultLimit
	}

	key := cachekey.Search(tenantID, conversationID, term, page, limit)

	var cached model.MessagePage
	if cacheHit(ctx, s.cache, key, &cached) {
		return &cached, nil
	}

	result, err := s.index.Search(ctx, conversationID, tenantID, cachekey.NormalizeTerm(term), page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}

	if err := s.cache.Set(ctx, key, result, cachekey.PageTTL); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to cache search page")
	}

	return result, nil
}
