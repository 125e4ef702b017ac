package service

import (
	"github.com/vund-dev/moda-backend/internal/app/model"
	"github.com/vund-dev/moda-backend/internal/app/repository"
	"github.com/vund-dev/moda-backend/pkg/logger"
	"github.com/vund-dev/moda-backend/pkg/util"
)

type BrandService interface {
	List() ([]model.Brand, error)
	Get(id uint) (*model.Brand, error)
	Create(name, description string) (*model.Brand, error)
	Update(id uint, name, description *string) (*model.Brand, error)
	Delete(id uint) error
}

type brandService struct {
	brandRepo repository.BrandRepository
}

func NewBrandService(brandRepo repository.BrandRepository) BrandService {
	return &brandService{brandRepo: brandRepo}
}

func (s *brandService) List() ([]model.Brand, error) {
	return s.brandRepo.FindAll()
}

func (s *brandService) Get(id uint) (*model.Brand, error) {
	return s.brandRepo.FindByID(id)
}

func (s *brandService) Create(name, description string) (*model.Brand, error) {
	brand := &model.Brand{
		Name:        name,
		Slug:        util.Slugify(name),
		Description: description,
	}
	if err := s.brandRepo.Create(brand); err != nil {
		return nil, err
	}

	logger.Info("Brand created", map[string]interface{}{
		"brand_id": brand.ID,
		"name":     brand.Name,
	})
	return brand, nil
}

func (s *brandService) Update(id uint, name, description *string) (*model.Brand, error) {
	brand, err := s.brandRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		brand.Name = *name
		brand.Slug = util.Slugify(*name)
	}
	if description != nil {
		brand.Description = *description
	}

	if err := s.brandRepo.Update(brand); err != nil {
		return nil, err
	}
	return brand, nil
}

func (s *brandService) Delete(id uint) error {
	if _, err := s.brandRepo.FindByID(id); err != nil {
		return err
	}
	return s.brandRepo.Delete(id)
}
