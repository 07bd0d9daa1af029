package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stocknest/inventory-service/internal/apperrors"
	"github.com/stocknest/inventory-service/internal/model"
	"github.com/stocknest/inventory-service/internal/product"
	"github.com/stocknest/inventory-service/internal/product/dto"
	"github.com/stocknest/inventory-service/pkg/cache"
	"github.com/stocknest/inventory-service/pkg/logger"
	"github.com/stocknest/inventory-service/pkg/search"
	"go.uber.org/zap"
)

const productsIndex = "products"

const productsMapping = `{
    "mappings": {
        "properties": {
            "tenant_id": { "type": "keyword" },
            "name": { "type": "text" },
            "description": { "type": "text" },
            "sku": { "type": "keyword" },
            "barcode": { "type": "keyword" },
            "selling_price": { "type": "double" },
            "created_at": { "type": "date" }
        }
    }
}`

type productUseCase struct {
	repo   product.Repository
	cache  *cache.RedisClient
	es     *search.Client
	logger logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, cacheClient *cache.RedisClient, es *search.Client, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		cache:  cacheClient,
		es:     es,
		logger: log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if input.SKU == "" || input.Name == "" {
		return nil, apperrors.Validationf("sku and name are required")
	}

	unique, err := uc.repo.IsSKUUnique(ctx, input.TenantID, input.SKU, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, apperrors.Validationf("sku %q already exists", input.SKU)
	}

	if input.Barcode != "" {
		unique, err := uc.repo.IsBarcodeUnique(ctx, input.TenantID, input.Barcode, "")
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, apperrors.Validationf("barcode %q already exists", input.Barcode)
		}
	}

	id := uuid.New().String()
	now := time.Now()

	var barcode *string
	if input.Barcode != "" {
		barcode = &input.Barcode
	}
	var description *string
	if input.Description != "" {
		description = &input.Description
	}

	p := &model.Product{
		BaseModel:           model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		TenantID:            input.TenantID,
		SKU:                 input.SKU,
		Barcode:             barcode,
		Name:                input.Name,
		Description:         description,
		UnitCost:            input.UnitCost,
		SellingPrice:        input.SellingPrice,
		UnitOfMeasure:       input.UnitOfMeasure,
		DefaultReorderPoint: input.DefaultReorderPoint,
		IsActive:            true,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateProductCache(context.Background(), input.TenantID)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, tenantID, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.NotFoundf("product %s", id)
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey := uc.cacheKey(filters)
	if uc.cache != nil && cacheKey != "" {
		if val, err := uc.cache.Get(ctx, cacheKey); err == nil && val != "" {
			var cached struct {
				Products []model.Product `json:"products"`
				Count    int             `json:"count"`
			}
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached.Products, cached.Count, nil
			}
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("elasticsearch search failed, falling back to db", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if uc.cache != nil && cacheKey != "" {
		payload := struct {
			Products []model.Product `json:"products"`
			Count    int             `json:"count"`
		}{products, count}
		if data, err := json.Marshal(payload); err == nil {
			_ = uc.cache.Set(ctx, cacheKey, string(data), 5*time.Minute)
		}
	}

	return products, count, nil
}

func (uc *productUseCase) searchElastic(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []map[string]interface{}{
					{
						"query_string": map[string]interface{}{
							"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
							"fields": []string{"name^3", "sku", "barcode", "description"},
						},
					},
					{
						"term": map[string]interface{}{
							"tenant_id": filters.TenantID,
						},
					},
				},
			},
		},
	}
	if filters.PageSize > 0 {
		from := (filters.Page - 1) * filters.PageSize
		if from < 0 {
			from = 0
		}
		q["from"] = from
		q["size"] = filters.PageSize
	}

	body, err := json.Marshal(q)
	if err != nil {
		return nil, 0, err
	}

	raw, err := uc.es.Search(ctx, productsIndex, body)
	if err != nil {
		return nil, 0, err
	}

	var res struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, 0, err
	}

	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.NotFoundf("product %s", input.ID)
	}

	if p.SKU != input.SKU {
		unique, err := uc.repo.IsSKUUnique(ctx, input.TenantID, input.SKU, p.ID)
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, apperrors.Validationf("sku %q already exists", input.SKU)
		}
	}

	p.SKU = input.SKU
	p.Name = input.Name
	p.UnitCost = input.UnitCost
	p.SellingPrice = input.SellingPrice
	p.UnitOfMeasure = input.UnitOfMeasure
	p.DefaultReorderPoint = input.DefaultReorderPoint
	p.IsActive = input.IsActive
	if input.Barcode != "" {
		bc := input.Barcode
		p.Barcode = &bc
	} else {
		p.Barcode = nil
	}
	if input.Description != "" {
		desc := input.Description
		p.Description = &desc
	} else {
		p.Description = nil
	}
	p.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateProductCache(context.Background(), p.TenantID)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) DeactivateProduct(ctx context.Context, tenantID, id string) error {
	if err := uc.repo.Deactivate(ctx, tenantID, id); err != nil {
		return err
	}

	go uc.invalidateProductCache(context.Background(), tenantID)
	if uc.es != nil {
		go func() {
			if err := uc.es.DeleteDocument(context.Background(), productsIndex, id); err != nil {
				uc.logger.Error("failed to delete product from index", zap.Error(err))
			}
		}()
	}
	return nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	if err := uc.es.EnsureIndex(ctx, productsIndex, productsMapping); err != nil {
		uc.logger.Error("failed to ensure products index", zap.Error(err))
		return
	}
	doc, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := uc.es.IndexDocument(ctx, productsIndex, p.ID, doc); err != nil {
		uc.logger.Error("failed to index product", zap.Error(err))
	}
}

func (uc *productUseCase) cacheKey(filters *dto.ProductFilters) string {
	data, err := json.Marshal(filters)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("products:list:%s:%x", filters.TenantID, md5.Sum(data))
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context, tenantID string) {
	if uc.cache == nil {
		return
	}
	pattern := fmt.Sprintf("products:list:%s:*", tenantID)
	if err := uc.cache.DeleteByPattern(ctx, pattern); err != nil {
		uc.logger.Error("failed to invalidate product cache", zap.Error(err))
	}
}
