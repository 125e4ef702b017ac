package main

import (
	"fmt"
	"log"

	"github.com/vund-dev/moda-backend/config"
	"github.com/vund-dev/moda-backend/internal/app/model"
	"github.com/vund-dev/moda-backend/internal/db"
	"github.com/vund-dev/moda-backend/pkg/util"
	"gorm.io/gorm"
)

// Seeds the base catalog data: an admin account, the attribute axes
// with their values, and a starter set of brands and categories.
// Safe to run twice; existing rows are left alone.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	gdb := db.GetDB()

	if err := seedAdmin(gdb); err != nil {
		log.Fatal("Failed to seed admin user:", err)
	}
	if err := seedAttributes(gdb); err != nil {
		log.Fatal("Failed to seed attributes:", err)
	}
	if err := seedBrands(gdb); err != nil {
		log.Fatal("Failed to seed brands:", err)
	}
	if err := seedCategories(gdb); err != nil {
		log.Fatal("Failed to seed categories:", err)
	}

	fmt.Println("Seed completed successfully!")
}

func seedAdmin(gdb *gorm.DB) error {
	var count int64
	if err := gdb.Model(&model.User{}).Where("email = ?", "admin@moda.local").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		fmt.Println("Admin user already exists, skipping")
		return nil
	}

	hashed, err := util.HashPassword("changeme123")
	if err != nil {
		return err
	}

	admin := model.User{
		Email:    "admin@moda.local",
		Password: hashed,
		Name:     "Administrator",
		Role:     model.RoleAdmin,
	}
	if err := gdb.Create(&admin).Error; err != nil {
		return err
	}

	fmt.Println("Created admin user admin@moda.local (change the password)")
	return nil
}

func seedAttributes(gdb *gorm.DB) error {
	axes := map[string][][2]string{
		"Color": {
			{"Red", "RD"}, {"Blue", "BL"}, {"Green", "GN"},
			{"Black", "BK"}, {"White", "WH"},
		},
		"Size": {
			{"XS", "XS"}, {"S", "S"}, {"M", "M"}, {"L", "L"}, {"XL", "XL"},
		},
	}

	for name, values := range axes {
		var attribute model.ProductAttribute
		err := gdb.Where("name = ?", name).First(&attribute).Error
		if err == gorm.ErrRecordNotFound {
			attribute = model.ProductAttribute{Name: name}
			if err := gdb.Create(&attribute).Error; err != nil {
				return err
			}
			fmt.Printf("Created attribute: %s\n", name)
		} else if err != nil {
			return err
		}

		for _, pair := range values {
			var count int64
			err := gdb.Model(&model.AttributeValue{}).
				Where("product_attribute_id = ? AND code = ?", attribute.ID, pair[1]).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			value := model.AttributeValue{
				ProductAttributeID: attribute.ID,
				Value:              pair[0],
				Code:               pair[1],
			}
			if err := gdb.Create(&value).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedBrands(gdb *gorm.DB) error {
	names := []string{"Moda Basics", "Northwind", "Atelier Nine"}
	for _, name := range names {
		var count int64
		if err := gdb.Model(&model.Brand{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		brand := model.Brand{Name: name, Slug: util.Slugify(name)}
		if err := gdb.Create(&brand).Error; err != nil {
			return err
		}
		fmt.Printf("Created brand: %s\n", name)
	}
	return nil
}

func seedCategories(gdb *gorm.DB) error {
	tree := map[string][]string{
		"Clothing":    {"T-Shirts", "Pants", "Outerwear"},
		"Accessories": {"Bags", "Hats"},
	}

	for parent, children := range tree {
		var category model.Category
		err := gdb.Where("name = ?", parent).First(&category).Error
		if err == gorm.ErrRecordNotFound {
			category = model.Category{Name: parent, Slug: util.Slugify(parent)}
			if err := gdb.Create(&category).Error; err != nil {
				return err
			}
			fmt.Printf("Created category: %s\n", parent)
		} else if err != nil {
			return err
		}

		for _, child := range children {
			var count int64
			if err := gdb.Model(&model.Category{}).Where("name = ?", child).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			sub := model.Category{
				Name:     child,
				Slug:     util.Slugify(child),
				ParentID: &category.ID,
			}
			if err := gdb.Create(&sub).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
