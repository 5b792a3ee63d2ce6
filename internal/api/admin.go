package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samanvaya/samanvaya/pkg/db/models"
	"github.com/samanvaya/samanvaya/pkg/db/store"
	"github.com/samanvaya/samanvaya/pkg/policy"
)

// source picks the collection a request operates on.
type source[T any, P store.Row[T]] func(c *gin.Context) (*store.Collection[T, P], error)

func fixed[T any, P store.Row[T]](collection func() *store.Collection[T, P]) source[T, P] {
	return func(*gin.Context) (*store.Collection[T, P], error) {
		return collection(), nil
	}
}

func (h *Handlers) tags(c *gin.Context) (*store.Collection[models.Tag, *models.Tag], error) {
	return h.store.Tags(c.Param("category"))
}

func (h *Handlers) data(c *gin.Context) (*store.Collection[models.Data, *models.Data], error) {
	return h.store.Data(c.Param("category"))
}

// allowed rejects the caller before the category is resolved or the body
// read, so every denied request looks the same. The collection checks again.
func allowed(c *gin.Context, class policy.Class, action policy.Action) bool {
	if err := policy.Authorize(GetIdentity(c), class, action); err != nil {
		respondError(c, err)
		return false
	}
	return true
}

func createRecord[T any, P store.Row[T]](class policy.Class, from source[T, P]) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allowed(c, class, policy.Create) {
			return
		}
		collection, err := from(c)
		if err != nil {
			respondError(c, err)
			return
		}

		var row T
		if !bind(c, &row) {
			return
		}

		created, err := collection.Create(c.Request.Context(), GetIdentity(c), P(&row))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func updateRecord[T any, P store.Row[T]](class policy.Class, from source[T, P]) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allowed(c, class, policy.Edit) {
			return
		}
		collection, err := from(c)
		if err != nil {
			respondError(c, err)
			return
		}
		id, err := parseID(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}

		var row T
		if !bind(c, &row) {
			return
		}

		updated, err := collection.Update(c.Request.Context(), GetIdentity(c), id, P(&row))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func deleteRecord[T any, P store.Row[T]](class policy.Class, from source[T, P]) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allowed(c, class, policy.Delete) {
			return
		}
		collection, err := from(c)
		if err != nil {
			respondError(c, err)
			return
		}
		id, err := parseID(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}

		if err := collection.Delete(c.Request.Context(), GetIdentity(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *Handlers) CreateUser(c *gin.Context) {
	if !allowed(c, policy.ClassUser, policy.Create) {
		return
	}

	var in store.UserInput
	if !bind(c, &in) {
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), GetIdentity(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handlers) UpdateUser(c *gin.Context) {
	if !allowed(c, policy.ClassUser, policy.Edit) {
		return
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var in store.UserInput
	if !bind(c, &in) {
		return
	}

	user, err := h.store.UpdateUser(c.Request.Context(), GetIdentity(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
