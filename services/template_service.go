package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"pacelineAPI/internal/types/challenge"
)

// TemplateCache holds the catalog for the life of the process. Templates
// change rarely and only through the authoring tool, so there is no TTL;
// Invalidate forces the next read to hit the store.
type TemplateCache struct {
	mu        sync.RWMutex
	templates []challenge.Template
	loaded    bool
}

func (c *TemplateCache) Get() ([]challenge.Template, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.templates, c.loaded
}

func (c *TemplateCache) Set(templates []challenge.Template) {
	c.mu.Lock()
	c.templates = templates
	c.loaded = true
	c.mu.Unlock()
}

func (c *TemplateCache) Invalidate() {
	c.mu.Lock()
	c.templates = nil
	c.loaded = false
	c.mu.Unlock()
}

type TemplateService struct {
	db    DynamoAPI
	table string
	cache TemplateCache
}

func NewTemplateService(db DynamoAPI, table string) *TemplateService {
	return &TemplateService{
		db:    db,
		table: table,
	}
}

// GetAll returns the full template catalog in table scan order. The first
// successful load is cached; later calls are served from memory until
// Invalidate is called.
func (s *TemplateService) GetAll(ctx context.Context) ([]challenge.Template, error) {
	if cached, ok := s.cache.Get(); ok {
		return cached, nil
	}

	templates, err := s.scanAll(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(templates)
	return templates, nil
}

// Invalidate drops the cached catalog so the next GetAll re-reads the store.
func (s *TemplateService) Invalidate() {
	s.cache.Invalidate()
}

func (s *TemplateService) scanAll(ctx context.Context) ([]challenge.Template, error) {
	var templates []challenge.Template
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.db.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", ErrStoreRead, s.table, err)
		}

		var page []challenge.Template
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("%w: unmarshal templates from %s: %v", ErrStoreRead, s.table, err)
		}
		templates = append(templates, page...)

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return templates, nil
}
