package service

import (
	"github.com/vund-dev/moda-backend/internal/app/model"
	"github.com/vund-dev/moda-backend/internal/app/repository"
	"github.com/vund-dev/moda-backend/pkg/logger"
	"github.com/vund-dev/moda-backend/pkg/util"
)

type CategoryService interface {
	List() ([]model.Category, error)
	Get(id uint) (*model.Category, error)
	Create(name string, parentID *uint) (*model.Category, error)
	Update(id uint, name *string, parentID *uint) (*model.Category, error)
	Delete(id uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *categoryService) Get(id uint) (*model.Category, error) {
	return s.categoryRepo.FindByID(id)
}

func (s *categoryService) Create(name string, parentID *uint) (*model.Category, error) {
	if parentID != nil {
		if _, err := s.categoryRepo.FindByID(*parentID); err != nil {
			return nil, err
		}
	}

	category := &model.Category{
		Name:     name,
		Slug:     util.Slugify(name),
		ParentID: parentID,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return category, nil
}

func (s *categoryService) Update(id uint, name *string, parentID *uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		category.Name = *name
		category.Slug = util.Slugify(*name)
	}
	if parentID != nil {
		if _, err := s.categoryRepo.FindByID(*parentID); err != nil {
			return nil, err
		}
		category.ParentID = parentID
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Delete(id uint) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(id)
}
