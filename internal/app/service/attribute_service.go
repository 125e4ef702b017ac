package service

import (
	"github.com/vund-dev/moda-backend/internal/app/model"
	"github.com/vund-dev/moda-backend/internal/app/repository"
	"github.com/vund-dev/moda-backend/pkg/logger"
)

type AttributeService interface {
	ListAttributes() ([]model.ProductAttribute, error)
	GetAttribute(id uint) (*model.ProductAttribute, error)
	CreateAttribute(name string) (*model.ProductAttribute, error)
	UpdateAttribute(id uint, name string) (*model.ProductAttribute, error)
	DeleteAttribute(id uint) error

	CreateValue(attributeID uint, value, code string) (*model.AttributeValue, error)
	UpdateValue(id uint, value, code *string) (*model.AttributeValue, error)
	DeleteValue(id uint) error
}

type attributeService struct {
	attributeRepo repository.AttributeRepository
}

func NewAttributeService(attributeRepo repository.AttributeRepository) AttributeService {
	return &attributeService{attributeRepo: attributeRepo}
}

func (s *attributeService) ListAttributes() ([]model.ProductAttribute, error) {
	return s.attributeRepo.FindAllAttributes()
}

func (s *attributeService) GetAttribute(id uint) (*model.ProductAttribute, error) {
	return s.attributeRepo.FindAttributeByID(id)
}

func (s *attributeService) CreateAttribute(name string) (*model.ProductAttribute, error) {
	attribute := &model.ProductAttribute{Name: name}
	if err := s.attributeRepo.CreateAttribute(attribute); err != nil {
		return nil, err
	}

	logger.Info("Product attribute created", map[string]interface{}{
		"attribute_id": attribute.ID,
		"name":         attribute.Name,
	})
	return attribute, nil
}

func (s *attributeService) UpdateAttribute(id uint, name string) (*model.ProductAttribute, error) {
	attribute, err := s.attributeRepo.FindAttributeByID(id)
	if err != nil {
		return nil, err
	}

	attribute.Name = name
	if err := s.attributeRepo.UpdateAttribute(attribute); err != nil {
		return nil, err
	}
	return attribute, nil
}

func (s *attributeService) DeleteAttribute(id uint) error {
	if _, err := s.attributeRepo.FindAttributeByID(id); err != nil {
		return err
	}
	return s.attributeRepo.DeleteAttribute(id)
}

func (s *attributeService) CreateValue(attributeID uint, value, code string) (*model.AttributeValue, error) {
	if _, err := s.attributeRepo.FindAttributeByID(attributeID); err != nil {
		return nil, err
	}

	av := &model.AttributeValue{
		ProductAttributeID: attributeID,
		Value:              value,
		Code:               code,
	}
	if err := s.attributeRepo.CreateValue(av); err != nil {
		return nil, err
	}

	logger.Info("Attribute value created", map[string]interface{}{
		"value_id":     av.ID,
		"attribute_id": attributeID,
		"code":         code,
	})
	return av, nil
}

func (s *attributeService) UpdateValue(id uint, value, code *string) (*model.AttributeValue, error) {
	av, err := s.attributeRepo.FindValueByID(id)
	if err != nil {
		return nil, err
	}

	if value != nil {
		av.Value = *value
	}
	if code != nil {
		av.Code = *code
	}

	if err := s.attributeRepo.UpdateValue(av); err != nil {
		return nil, err
	}
	return av, nil
}

func (s *attributeService) DeleteValue(id uint) error {
	if _, err := s.attributeRepo.FindValueByID(id); err != nil {
		return err
	}
	return s.attributeRepo.DeleteValue(id)
}
