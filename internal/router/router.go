package router

import (
	"github.com/gin-gonic/gin"
	"github.com/vund-dev/moda-backend/config"
	"github.com/vund-dev/moda-backend/internal/app/controller"
	"github.com/vund-dev/moda-backend/internal/middleware"
)

type Router struct {
	authController      *controller.AuthController
	productController   *controller.ProductController
	brandController     *controller.BrandController
	categoryController  *controller.CategoryController
	attributeController *controller.AttributeController
	exportController    *controller.ExportController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	brandController *controller.BrandController,
	categoryController *controller.CategoryController,
	attributeController *controller.AttributeController,
	exportController *controller.ExportController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		productController:   productController,
		brandController:     brandController,
		categoryController:  categoryController,
		attributeController: attributeController,
		exportController:    exportController,
		authMiddleware:      authMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "healthy",
		})
	})

	staff := []string{"staff", "admin"}

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.Refresh)
			auth.POST("/register",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.authController.Register,
			)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)

			products.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(staff...),
				r.productController.CreateProduct,
			)
			products.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(staff...),
				r.productController.UpdateProduct,
			)
			products.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(staff...),
				r.productController.DeleteProduct,
			)
		}

		brands := v1.Group("/brands")
		{
			brands.GET("", r.brandController.ListBrands)
			brands.GET("/:id", r.brandController.GetBrand)

			brands.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(staff...),
				r.brandController.CreateBrand,
			)
			brands.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(staff...),
				r.brandController.UpdateBrand,
			)
			brands.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.brandController.DeleteBrand,
			)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.ListCategories)
			categories.GET("/:id", r.categoryController.GetCategory)

			categories.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(staff...),
				r.categoryController.CreateCategory,
			)
			categories.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(staff...),
				r.categoryController.UpdateCategory,
			)
			categories.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.categoryController.DeleteCategory,
			)
		}

		attributes := v1.Group("/attributes")
		{
			attributes.GET("", r.attributeController.ListAttributes)
			attributes.GET("/:id", r.attributeController.GetAttribute)

			attributes.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(staff...),
				r.attributeController.CreateAttribute,
			)
			attributes.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(staff...),
				r.attributeController.UpdateAttribute,
			)
			attributes.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.attributeController.DeleteAttribute,
			)
			attributes.POST("/:id/values",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(staff...),
				r.attributeController.CreateAttributeValue,
			)
		}

		attributeValues := v1.Group("/attribute-values")
		attributeValues.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole(staff...))
		{
			attributeValues.PUT("/:id", r.attributeController.UpdateAttributeValue)
			attributeValues.DELETE("/:id", r.attributeController.DeleteAttributeValue)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/export/catalog", r.exportController.ExportCatalog)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
