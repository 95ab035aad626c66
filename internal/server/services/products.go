package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
)

// imageKeyPrefix marks product images that live in the bucket rather than
// at an external URL.
const imageKeyPrefix = "products/"

type ProductService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	images      ImageStore
	now         func() time.Time
}

func NewProductService(db *sql.DB, m repomanager.RepositoryManager, images ImageStore) *ProductService {
	return &ProductService{db: db, repomanager: m, images: images, now: time.Now}
}

func (s *ProductService) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	return s.repomanager.Products(s.db).Create(ctx, p)
}

// Update replaces every field of product id with those of p.
func (s *ProductService) Update(ctx context.Context, id string, p *models.Product) (*models.Product, error) {
	p.ID = id
	return s.repomanager.Products(s.db).Update(ctx, p)
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.repomanager.Products(s.db).Delete(ctx, id)
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.repomanager.Products(s.db).GetByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	products, err := s.repomanager.Products(s.db).List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []*models.Product{}
	}
	return products, nil
}

// ImageUpload reserves a storage key for a new image of product id and
// returns a presigned URL to upload it to. The product's img field is
// pointed at the key in the same call.
func (s *ProductService) ImageUpload(ctx context.Context, id string) (*models.ImageUpload, error) {
	key := ImageKey(id)

	url, err := s.images.PresignUpload(ctx, key)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Products(tx)
		p, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		p.Img = key
		_, err = repo.Update(ctx, p)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &models.ImageUpload{
		Key:       key,
		UploadURL: url,
		ExpiresAt: s.now().Add(ImageURLValidity),
	}, nil
}

// ImageURL resolves the img field of product id to a fetchable URL. Images
// kept in the bucket get a presigned download URL; anything else is
// returned as stored.
func (s *ProductService) ImageURL(ctx context.Context, id string) (string, error) {
	p, err := s.repomanager.Products(s.db).GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(p.Img, imageKeyPrefix) {
		return p.Img, nil
	}
	return s.images.PresignDownload(ctx, p.Img)
}
