package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samanvaya/samanvaya/pkg/db/models"
	"github.com/samanvaya/samanvaya/pkg/policy"
)

// RegisterRoutes registers every endpoint on r.
//
//	GET    /health
//	GET    /metrics
//	GET    /api/list/tags                      public category overview
//	GET    /api/list/languages
//	GET    /api/list/:category
//	GET    /api/get/:category/:ids             comparison view
//	POST   /api/comments
//	POST   /api/admin/:category/tags           PUT, DELETE on /:id
//	POST   /api/admin/:category/data           PUT, DELETE on /:id
//	POST   /api/admin/languages                PUT, DELETE on /:id
//	POST   /api/admin/users                    PUT, DELETE on /:id
//	POST   /api/admin/tag-information          PUT on /:id
//	GET    /api/admin/comments
//	GET    /api/admin/changelog?format=
func RegisterRoutes(r gin.IRouter, h *Handlers) {
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/list/tags", h.ListCategories)
		api.GET("/list/languages", h.ListLanguages)
		api.GET("/list/:category", h.ListCategoryTags)
		api.GET("/get/:category/:ids", h.GetCategoryTagsWithData)
		api.POST("/comments", h.SubmitComment)
	}

	admin := api.Group("/admin")
	{
		tags := source[models.Tag, *models.Tag](h.tags)
		admin.POST("/:category/tags", createRecord(policy.ClassTag, tags))
		admin.PUT("/:category/tags/:id", updateRecord(policy.ClassTag, tags))
		admin.DELETE("/:category/tags/:id", deleteRecord(policy.ClassTag, tags))

		data := source[models.Data, *models.Data](h.data)
		admin.POST("/:category/data", createRecord(policy.ClassData, data))
		admin.PUT("/:category/data/:id", updateRecord(policy.ClassData, data))
		admin.DELETE("/:category/data/:id", deleteRecord(policy.ClassData, data))

		languages := fixed(h.store.Languages)
		admin.POST("/languages", createRecord(policy.ClassLanguage, languages))
		admin.PUT("/languages/:id", updateRecord(policy.ClassLanguage, languages))
		admin.DELETE("/languages/:id", deleteRecord(policy.ClassLanguage, languages))

		admin.POST("/users", h.CreateUser)
		admin.PUT("/users/:id", h.UpdateUser)
		admin.DELETE("/users/:id", deleteRecord(policy.ClassUser, fixed(h.store.Users)))

		information := fixed(h.store.TagInformation)
		admin.POST("/tag-information", createRecord(policy.ClassTagInformation, information))
		admin.PUT("/tag-information/:id", updateRecord(policy.ClassTagInformation, information))

		admin.GET("/comments", h.ListComments)
		admin.GET("/changelog", h.ChangeLog)
	}
}
